// Package assertion реализует подписанные утверждения о пользователе (user assertion),
// которыми серверная часть дашборда доказывает доверенному бэкенду,
// от имени какого пользователя выполняется административный запрос.
//
// Формат токена (контракт для внешнего Verifier):
//
//	base64url(header) "." base64url(payload) "." base64url(signature)
//
// Все части кодируются base64url без паддинга "=".
//
// Header:
//
//	{"alg":"RS256","typ":"JWT"} (+ "kid", если задан Config.KeyID)
//
// Payload:
//   - iss, aud — фиксированные строки дашборда и бэкенда (aud сериализуется массивом из одного элемента);
//   - sub, handle — обязательные идентификатор и имя пользователя;
//   - email, roles, teams — опциональные;
//   - iat, nbf, exp — Unix-время в секундах, nbf == iat, exp == iat + ttl (по умолчанию 300 с);
//   - jti — 128 бит из crypto/rand, base64url; уникален для каждого токена;
//   - bod — только если у запроса есть тело: SHA-256 от точных байтов тела,
//     записанный строкой в нижнем регистре hex (64 символа).
//
// Signature — RSASSA-PKCS1-v1_5 + SHA-256 над ASCII-байтами
// base64url(header) + "." + base64url(payload).
package assertion

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
)

// UserAssertionClaims — факты о пользователе, которые утверждает дашборд.
//
// Subject — стабильный непрозрачный идентификатор (например "github:42"),
// Handle — имя пользователя; оба обязательны. Roles трактуются как множество:
// дубликаты при подписи отбрасываются, порядок на авторизацию не влияет.
type UserAssertionClaims struct {
	Subject string   `json:"sub"`
	Handle  string   `json:"handle"`
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	Teams   []string `json:"teams,omitempty"`
}

// Validate проверяет обязательные поля.
//
// Возвращает *errors.ValidationError, если Subject или Handle пустые.
func (c UserAssertionClaims) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return serr.NewValidationError("subject", "required claim is empty")
	}
	if strings.TrimSpace(c.Handle) == "" {
		return serr.NewValidationError("handle", "required claim is empty")
	}
	return nil
}

// Claims — payload токена: утверждения о пользователе и протокольные поля.
type Claims struct {
	Handle   string   `json:"handle"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Teams    []string `json:"teams,omitempty"`
	BodyHash string   `json:"bod,omitempty"`
	jwt.RegisteredClaims
}

// User возвращает пользовательскую часть payload.
func (c *Claims) User() UserAssertionClaims {
	return UserAssertionClaims{
		Subject: c.Subject,
		Handle:  c.Handle,
		Email:   c.Email,
		Roles:   c.Roles,
		Teams:   c.Teams,
	}
}

// uniqueStrings убирает пустые строки и дубликаты, сохраняя порядок первого вхождения.
func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
