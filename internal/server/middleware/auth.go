// Package middleware содержит HTTP middleware сервера дашборда.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userKey — ключ контекста, под которым хранится личность аутентифицированного пользователя.
const userKey ctxKey = "user"

// SessionClaims — payload сессионного токена дашборда.
//
// Токен выпускает слой аутентификации дашборда (OAuth-логин), сервер его только проверяет.
type SessionClaims struct {
	Handle string   `json:"handle"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Teams  []string `json:"teams,omitempty"`
	jwt.RegisteredClaims
}

// SessionVerifier инкапсулирует параметры проверки сессионных JWT.
//
// Используется в HTTP middleware для:
//   - проверки подписи токена (HS256)
//   - валидации issuer и audience
//   - извлечения личности пользователя для подписанных утверждений
type SessionVerifier struct {
	SigningKey string // симметричный ключ для подписи (HS256)
	Issuer     string // ожидаемый issuer (опционально)
	Audience   string // ожидаемая audience (опционально)
	CookieName string // имя cookie с токеном (опционально)
}

// NewSessionVerifier создаёт новый SessionVerifier с заданными параметрами.
func NewSessionVerifier(signingKey, issuer, audience, cookieName string) *SessionVerifier {
	return &SessionVerifier{SigningKey: signingKey, Issuer: issuer, Audience: audience, CookieName: cookieName}
}

// WithUser кладёт личность пользователя в контекст.
func WithUser(ctx context.Context, u assertion.UserAssertionClaims) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext извлекает личность аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - claims пользователя
//   - false, если пользователь не аутентифицирован
func UserFromContext(ctx context.Context) (assertion.UserAssertionClaims, bool) {
	u, ok := ctx.Value(userKey).(assertion.UserAssertionClaims)
	return u, ok
}

// AuthMiddleware возвращает HTTP middleware для проверки сессионных токенов.
//
// Middleware:
//   - берёт токен из Authorization: Bearer <token>, иначе из cookie CookieName
//   - валидирует подпись и claims токена
//   - собирает UserAssertionClaims (sub, handle, email, roles, teams)
//   - сохраняет их в context.Context
//
// В случае ошибки возвращает HTTP 401 с {"error": "...", "reauth": true}.
func (v *SessionVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := v.tokenFromRequest(r)
			if tokenStr == "" {
				unauthorized(w, "missing session token")
				return
			}

			claims := &SessionClaims{}

			// сессия без exp не принимается: из неё выпускаются все утверждения
			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
				jwt.WithExpirationRequired(),
			}
			if v.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(v.Issuer))
			}
			if v.Audience != "" {
				opts = append(opts, jwt.WithAudience(v.Audience))
			}
			_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				return []byte(v.SigningKey), nil
			})
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					unauthorized(w, "session expired")
				case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
					unauthorized(w, "session token has no expiry")
				case errors.Is(err, jwt.ErrTokenInvalidIssuer):
					unauthorized(w, "invalid token issuer")
				case errors.Is(err, jwt.ErrTokenInvalidAudience):
					unauthorized(w, "invalid token audience")
				default:
					unauthorized(w, "invalid session token")
				}
				return
			}

			user := assertion.UserAssertionClaims{
				Subject: strings.TrimSpace(claims.Subject),
				Handle:  strings.TrimSpace(claims.Handle),
				Email:   claims.Email,
				Roles:   claims.Roles,
				Teams:   claims.Teams,
			}
			if err := user.Validate(); err != nil {
				unauthorized(w, "session token lacks subject or handle")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func (v *SessionVerifier) tokenFromRequest(r *http.Request) string {
	if tok := ExtractBearer(r.Header.Get("Authorization")); tok != "" {
		return tok
	}
	if v.CookieName == "" {
		return ""
	}
	c, err := r.Cookie(v.CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg, "reauth": true})
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
