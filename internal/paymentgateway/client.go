// Package paymentgateway реализует клиент платежного шлюза.
// Шлюз обслуживает только внутреннюю валюту; пересчет в минорные единицы
// выполняется по фиксированному приблизительному курсу из конфига,
// живые котировки намеренно не используются.
package paymentgateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"
)

// Client клиент платежного шлюза.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	fxRate     float64
	httpClient *http.Client
}

// NewClient создает новый клиент шлюза.
func NewClient(keyID, keySecret, apiURL string, fxRate float64) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     apiURL,
		fxRate:     fxRate,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// MinorUnits пересчитывает сумму в целых единицах валюты в минорные единицы:
// сначала применяется фиксированный курс, затем умножение на 100.
func (c *Client) MinorUnits(amount int) int64 {
	return int64(math.Round(float64(amount) * c.fxRate * 100))
}

// CreateOrder отправляет запрос на создание платежного ордера.
func (c *Client) CreateOrder(reqParams CreateOrderRequest) (*Order, error) {
	req, err := c.newRequest("POST", "/orders", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPaymentSignature проверяет подпись успешного платежа:
// HMAC-SHA256 от "<order_id>|<payment_id>" на секретном ключе.
// Сравнение выполняется без утечки по времени.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
