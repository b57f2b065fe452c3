// Package geo реализует клиент внешнего сервиса IP-геолокации.
// Сервис работает по принципу best effort: ответ может не прийти
// или не содержать кода страны, это не считается ошибкой продукта.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client клиент сервиса геолокации.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создает новый клиент геолокации.
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type lookupResponse struct {
	CountryCode string `json:"country_code"`
}

// ErrNoCountryCode возвращается, когда ответ сервиса не содержит кода страны.
var ErrNoCountryCode = errors.New("geo: response has no country code")

// CountryCode возвращает двухбуквенный код страны для IP адреса.
func (c *Client) CountryCode(ctx context.Context, ip string) (string, error) {
	const op = "geo.CountryCode"

	url := fmt.Sprintf("%s/%s/json/", c.apiURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var lookup lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if lookup.CountryCode == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoCountryCode)
	}
	return lookup.CountryCode, nil
}
