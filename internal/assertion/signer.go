package assertion

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
)

const (
	// DefaultIssuer — значение iss по умолчанию (дашборд).
	DefaultIssuer = "gateway-dashboard"
	// DefaultAudience — значение aud по умолчанию (внутренний API бэкенда).
	DefaultAudience = "gateway-internal-api"
	// DefaultTTL — срок жизни утверждения по умолчанию.
	DefaultTTL = 300 * time.Second

	bearerPrefix = "Bearer "
)

// Config описывает параметры выпуска утверждений.
type Config struct {
	// Issuer — значение поля iss.
	Issuer string
	// Audience — значение поля aud; Verifier отклоняет токены не для себя.
	Audience string
	// TTL — срок жизни токена, exp = iat + TTL.
	TTL time.Duration
	// KeyID — опциональный kid в заголовке (для ротации ключей на стороне Verifier).
	KeyID string
	// Now — источник времени; nil означает time.Now.
	Now func() time.Time
}

// withDefaults возвращает копию конфига с проставленными значениями по умолчанию.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Issuer) == "" {
		c.Issuer = DefaultIssuer
	}
	if strings.TrimSpace(c.Audience) == "" {
		c.Audience = DefaultAudience
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Signer выпускает подписанные утверждения.
//
// Signer не имеет изменяемого состояния кроме загруженного ключа и конфигурации,
// поэтому безопасен для конкурентного использования без блокировок.
type Signer struct {
	key    *rsa.PrivateKey
	method jwt.SigningMethod
	cfg    Config
}

// NewSigner загружает ключ и создаёт Signer.
//
// Ключ читается ровно один раз. Ошибка возвращается сразу, если ключ
// не удалось получить или разобрать, либо если TTL отрицательный или
// не кратен секунде (iat и exp пишутся в целых секундах).
func NewSigner(key KeyProvider, cfg Config) (*Signer, error) {
	if key == nil {
		return nil, serr.NewValidationError("private_key", "key provider is nil")
	}
	if cfg.TTL < 0 {
		return nil, serr.NewValidationError("ttl", "must be positive")
	}
	if cfg.TTL%time.Second != 0 {
		return nil, serr.NewValidationError("ttl", "must be a whole number of seconds")
	}
	pk, err := key.PrivateKey()
	if err != nil {
		return nil, err
	}
	if pk == nil {
		return nil, serr.NewValidationError("private_key", "key provider returned nil key")
	}
	return &Signer{
		key:    pk,
		method: jwt.SigningMethodRS256,
		cfg:    cfg.withDefaults(),
	}, nil
}

// TTL возвращает срок жизни выпускаемых токенов.
func (s *Signer) TTL() time.Duration {
	return s.cfg.TTL
}

// PublicKey возвращает публичную часть ключа подписи.
func (s *Signer) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// Sign выпускает токен для claims, привязанный к телу запроса body.
//
// Параметры:
//   - claims: утверждения о пользователе, Subject и Handle обязательны;
//   - body: точные байты тела запроса, которые уйдут в сеть.
//     nil означает запрос без тела (поле bod не добавляется).
//     Пустой, но не nil срез хешируется как пустое тело.
//
// Строка подписи фиксируется один раз при кодировании header и payload,
// подписываются ровно те байты, которые попадают в токен.
//
// Ошибки:
//   - *errors.ValidationError — не заполнены обязательные claims;
//   - *errors.SigningError — не удалось получить jti или выполнить подпись.
func (s *Signer) Sign(claims UserAssertionClaims, body []byte) (string, error) {
	if err := claims.Validate(); err != nil {
		return "", err
	}

	jti, err := NewTokenID()
	if err != nil {
		return "", &serr.SigningError{Op: "generate jti", Err: err}
	}

	// exp считается от уже усечённого iat, чтобы exp - iat == TTL
	now := s.cfg.Now().Truncate(time.Second)
	payload := &Claims{
		Handle: strings.TrimSpace(claims.Handle),
		Email:  strings.TrimSpace(claims.Email),
		Roles:  uniqueStrings(claims.Roles),
		Teams:  uniqueStrings(claims.Teams),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   strings.TrimSpace(claims.Subject),
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			ID:        jti,
		},
	}
	if body != nil {
		payload.BodyHash = BodyHash(body)
	}

	token := jwt.NewWithClaims(s.method, payload)
	if s.cfg.KeyID != "" {
		token.Header["kid"] = s.cfg.KeyID
	}

	signingString, err := token.SigningString()
	if err != nil {
		return "", &serr.SigningError{Op: "encode token", Err: err}
	}
	sig, err := s.method.Sign(signingString, s.key)
	if err != nil {
		return "", &serr.SigningError{Op: "sign token", Err: err}
	}

	return signingString + "." + token.EncodeSegment(sig), nil
}

// CreateAuthHeader возвращает значение заголовка вида "Bearer <token>".
func (s *Signer) CreateAuthHeader(claims UserAssertionClaims, body []byte) (string, error) {
	token, err := s.Sign(claims, body)
	if err != nil {
		return "", err
	}
	return bearerPrefix + token, nil
}

// String не раскрывает ключ при логировании.
func (s *Signer) String() string {
	return fmt.Sprintf("assertion.Signer{alg=%s iss=%s aud=%s ttl=%s}", s.method.Alg(), s.cfg.Issuer, s.cfg.Audience, s.cfg.TTL)
}
