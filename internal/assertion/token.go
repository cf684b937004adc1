package assertion

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
)

// tokenIDBytes — размер jti в байтах (128 бит).
const tokenIDBytes = 16

// NewTokenID возвращает случайный идентификатор токена (jti) в base64url.
func NewTokenID() (string, error) {
	b := make([]byte, tokenIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// BodyHash возвращает SHA-256 от байтов тела в нижнем регистре hex.
//
// Verifier вычисляет то же значение по байтам, которые он получил,
// и сравнивает с полем bod.
func BodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Inspection — разобранный без проверки подписи токен.
type Inspection struct {
	Header    map[string]any `json:"header"`
	Claims    *Claims        `json:"payload"`
	Signature string         `json:"signature"`
}

// Inspect декодирует header и payload токена БЕЗ проверки подписи.
//
// Только для отладки: результат нельзя использовать для решений об авторизации.
// Допускается как сам токен, так и значение заголовка "Bearer <token>".
func Inspect(token string) (*Inspection, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), bearerPrefix))
	if token == "" {
		return nil, serr.NewValidationError("token", "empty token")
	}

	claims := &Claims{}
	parsed, parts, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, &serr.ValidationError{Field: "token", Reason: "malformed token", Err: err}
	}

	return &Inspection{
		Header:    parsed.Header,
		Claims:    claims,
		Signature: parts[2],
	}, nil
}
