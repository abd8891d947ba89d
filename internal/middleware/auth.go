package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName cookie с JWT авторизации.
const CookieName = "auth_token"

// TokenTTL срок жизни токена.
const TokenTTL = 24 * time.Hour

type ctxKey struct{}

// Claims — полезная нагрузка токена.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// WithAuth читает cookie auth_token и кладёт user_id в контекст запроса.
// Без валидного токена запрос проходит дальше анонимным, решение принимает хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := parseToken(c.Value, secret)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext возвращает id пользователя, установленный WithAuth.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// SetLoginCookie выписывает токен и ставит его в cookie ответа.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string) error {
	token, err := BuildToken(userID, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(TokenTTL),
	})
	return nil
}

// BuildToken подписывает HS256-токен с user_id.
func BuildToken(userID int64, secret string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(raw, secret string) (int64, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, false
	}
	return claims.UserID, claims.UserID != 0
}
