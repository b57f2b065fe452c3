package mware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const visitorCookie = "visitor_id"

// VisitorIDMiddleware выдает посетителю анонимный идентификатор в cookie
// и кладет его в контекст запроса. Идентификатор ограничивает область
// действия отложенной покупки и кеша региона.
func VisitorIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var visitorID string
			if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
				visitorID = c.Value
			} else {
				visitorID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     visitorCookie,
					Value:    visitorID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), VisitorKey, visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP возвращает IP адрес клиента с учетом заголовков прокси.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
