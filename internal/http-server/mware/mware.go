// Package mware содержит middleware HTTP-сервера: проверку JWT внешнего
// сервиса аутентификации, выдачу анонимного идентификатора посетителя
// и ограничение частоты запросов.
package mware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	appjwt "github.com/asanaflow/checkout-service/internal/lib/jwt"
	"github.com/asanaflow/checkout-service/internal/http-server/response"
	"github.com/asanaflow/checkout-service/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserKey — ключ идентификатора пользователя в контексте.
	UserKey Key = "user_uid"
	// EmailKey — ключ почты пользователя в контексте.
	EmailKey Key = "email"
	// VisitorKey — ключ анонимного идентификатора посетителя в контексте.
	VisitorKey Key = "visitor_id"
)

// TokenParser описывает разбор токена внешнего сервиса аутентификации.
type TokenParser interface {
	ParseToken(tokenStr string) (*appjwt.CustomClaims, error)
}

// JWTMiddleware возвращает middleware, которое требует валидный JWT в
// заголовке Authorization и кладет идентификатор и почту пользователя
// в контекст запроса. Без валидного токена запрос отклоняется с 401.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "mware.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, claims.UserUID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTMiddleware работает как JWTMiddleware, но пропускает запрос
// дальше и без токена: попытка покупки до входа легальна, оркестратор
// отложит ее до аутентификации. Невалидный токен при этом отклоняется.
func OptionalJWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "mware.OptionalJWTMiddleware"

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			claims, err := parser.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, claims.UserUID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserUID возвращает идентификатор пользователя из контекста,
// пустая строка означает анонимного посетителя.
func GetUserUID(ctx context.Context) string {
	uid, _ := ctx.Value(UserKey).(string)
	return uid
}

// GetEmail возвращает почту пользователя из контекста.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetVisitorID возвращает анонимный идентификатор посетителя из контекста.
func GetVisitorID(ctx context.Context) string {
	id, _ := ctx.Value(VisitorKey).(string)
	return id
}
