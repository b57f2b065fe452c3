package jwt

import "github.com/golang-jwt/jwt/v5"

// CustomClaims описывает данные пользователя, хранящиеся в JWT
// внешнего сервиса аутентификации.
type CustomClaims struct {
	UserUID              string `json:"uid"`   // Идентификатор пользователя
	Email                string `json:"email"` // Электронная почта пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}
