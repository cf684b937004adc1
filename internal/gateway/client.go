// Package gateway содержит HTTP-клиент внутреннего API прокси-бэкенда.
//
// Каждый вызов выполняется от имени конкретного пользователя:
// к запросу прикладывается статический API-ключ дашборда (X-API-KEY)
// и свежевыпущенное подписанное утверждение о пользователе (X-User-Assertion).
//
// Особенности:
//   - тело запроса сериализуется ровно один раз, и эти же байты передаются в Signer
//     для вычисления bod и уходят в сеть;
//   - на каждый вызов выпускается новый токен, токены не кешируются;
//   - ровно один HTTP-запрос на вызов: без повторов, редиректов, кеширования и батчинга;
//     ответ 3xx возвращается как BackendError, заголовки не уходят на другой хост;
//   - baseURL нормализуется (обрезаются завершающие "/");
//   - при ответах 204 No Content или пустом теле декодирование не выполняется;
//   - ошибки классифицируются в типы из internal/shared/errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
)

const (
	// HeaderAPIKey — статический ключ, аутентифицирующий сам сервис дашборда.
	HeaderAPIKey = "X-API-KEY"
	// HeaderUserAssertion — подписанное утверждение о пользователе.
	HeaderUserAssertion = "X-User-Assertion"
	// HeaderRequestID — идентификатор запроса для корреляции логов.
	HeaderRequestID = "X-Request-ID"

	contentTypeJSON = "application/json"

	// DefaultTimeout — таймаут HTTP-клиента по умолчанию.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxErrorBodyBytes — сколько байт тела ошибки читаем максимум.
	DefaultMaxErrorBodyBytes = 1 << 20

	snippetLen = 256
)

// AssertionSigner выпускает значение заголовка X-User-Assertion.
//
// *assertion.Signer реализует этот интерфейс.
type AssertionSigner interface {
	CreateAuthHeader(claims assertion.UserAssertionClaims, body []byte) (string, error)
}

// Config — параметры клиента.
type Config struct {
	// BaseURL — адрес внутреннего API (например "https://proxy-api.internal").
	BaseURL string
	// APIKey — ключ дашборда, отправляется в X-API-KEY.
	APIKey string
	// Timeout — общий таймаут одного запроса; 0 означает DefaultTimeout.
	Timeout time.Duration
	// MaxErrorBodyBytes — лимит чтения тела ошибки; 0 означает DefaultMaxErrorBodyBytes.
	MaxErrorBodyBytes int64
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (тесты, кастомный транспорт).
//
// Используется копия hc с отключёнными редиректами; сам hc не меняется.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			cp.CheckRedirect = noRedirect
			c.http = &cp
		}
	}
}

// noRedirect оставляет последний ответ (3xx) вместо перехода по Location.
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// Client реализует вызовы внутреннего API с подписанными утверждениями.
//
// Client не хранит изменяемого состояния и безопасен для конкурентного использования.
type Client struct {
	baseURL      string
	apiKey       string
	maxErrorBody int64
	signer       AssertionSigner
	http         *http.Client
	log          *zap.Logger
}

// NewClient создаёт клиент внутреннего API.
//
// Параметры:
//   - cfg: адрес, API-ключ и таймауты;
//   - signer: выпускает утверждения (обычно *assertion.Signer);
//   - log: логгер; nil означает zap.NewNop().
//
// Возвращает *errors.ValidationError, если не задан адрес, ключ или signer.
func NewClient(cfg Config, signer AssertionSigner, log *zap.Logger, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, serr.NewValidationError("backend.base_url", "required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &serr.ValidationError{Field: "backend.base_url", Reason: "must be an absolute URL", Err: err}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, serr.NewValidationError("backend.api_key", "required")
	}
	if signer == nil {
		return nil, serr.NewValidationError("signer", "required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxErrorBodyBytes <= 0 {
		cfg.MaxErrorBodyBytes = DefaultMaxErrorBodyBytes
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		baseURL:      base,
		apiKey:       cfg.APIKey,
		maxErrorBody: cfg.MaxErrorBodyBytes,
		signer:       signer,
		http:         &http.Client{Timeout: cfg.Timeout, CheckRedirect: noRedirect},
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// encodeBody превращает тело запроса в итоговые байты для сети.
//
// []byte и json.RawMessage передаются как есть, остальное сериализуется json.Marshal.
// nil означает запрос без тела.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return []byte(b), nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, &serr.ValidationError{Field: "body", Reason: "encode request body", Err: err}
		}
		return raw, nil
	}
}

// Request выполняет один вызов внутреннего API от имени пользователя claims.
//
// Последовательность:
//  1. тело сериализуется в итоговые байты;
//  2. по этим байтам выпускается утверждение (bod = SHA-256 тела);
//  3. выставляются Content-Type, Accept, X-API-KEY, X-User-Assertion, X-Request-ID;
//  4. выполняется ровно один HTTP-запрос с контекстом ctx;
//  5. ответ классифицируется.
//
// Параметры:
//   - path: путь относительно baseURL, может содержать query ("/projects?page=2");
//   - body: тело запроса или nil;
//   - resp: указатель для декодирования JSON-ответа или nil.
//
// Ошибки:
//   - *errors.ValidationError — невалидные claims или тело, запрос не отправлялся;
//   - *errors.SigningError — не удалось подписать утверждение;
//   - *errors.TransportError — запрос не дошёл или ответ не получен (в т.ч. таймаут/отмена);
//   - *errors.BackendError — бэкенд вернул не 2xx;
//   - *errors.MalformedResponseError — 2xx-ответ не удалось декодировать в resp.
func (c *Client) Request(ctx context.Context, method, path string, body any, claims assertion.UserAssertionClaims, resp any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := encodeBody(body)
	if err != nil {
		return err
	}

	authHeader, err := c.signer.CreateAuthHeader(claims, raw)
	if err != nil {
		return err
	}

	target := c.baseURL + path
	var reader io.Reader
	if raw != nil {
		reader = bytes.NewReader(raw)
	}
	r, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &serr.ValidationError{Field: "request", Reason: "build request", Err: err}
	}

	requestID := uuid.NewString()
	r.Header.Set("Content-Type", contentTypeJSON)
	r.Header.Set("Accept", contentTypeJSON)
	r.Header.Set(HeaderAPIKey, c.apiKey)
	r.Header.Set(HeaderUserAssertion, authHeader)
	r.Header.Set(HeaderRequestID, requestID)

	log := &logger.HTTPLogger{Logger: c.log.With(zap.String("subject", claims.Subject))}

	start := time.Now()
	res, err := c.http.Do(r)
	if err != nil {
		terr := &serr.TransportError{
			Method:  method,
			URL:     target,
			Timeout: isTimeout(ctx, err),
			Err:     err,
		}
		log.LogUpstream(method, path, requestID, 0, time.Since(start), terr)
		return terr
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		berr := c.readBackendError(res)
		log.LogUpstream(method, path, requestID, res.StatusCode, time.Since(start), berr)
		return berr
	}
	log.LogUpstream(method, path, requestID, res.StatusCode, time.Since(start), nil)

	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res, resp)
}

// readBackendError читает тело ошибки и строит BackendError.
//
// Если тело пустое, не JSON или не содержит ни error, ни message,
// подставляется {"message":"Unknown error"}, а в Cause кладётся MalformedResponseError.
func (c *Client) readBackendError(res *http.Response) *serr.BackendError {
	raw, readErr := io.ReadAll(io.LimitReader(res.Body, c.maxErrorBody))

	var body serr.ErrorBody
	var cause error
	switch {
	case readErr != nil:
		cause = &serr.MalformedResponseError{Status: res.StatusCode, Err: readErr}
	case len(bytes.TrimSpace(raw)) == 0:
		cause = &serr.MalformedResponseError{Status: res.StatusCode, Err: errors.New("empty error body")}
	default:
		if err := json.Unmarshal(raw, &body); err != nil {
			cause = &serr.MalformedResponseError{Status: res.StatusCode, Snippet: snippet(raw), Err: err}
			body = serr.ErrorBody{}
		} else if strings.TrimSpace(body.Error) == "" && strings.TrimSpace(body.Message) == "" {
			cause = &serr.MalformedResponseError{Status: res.StatusCode, Snippet: snippet(raw), Err: errors.New("error body has no error or message field")}
		}
	}
	if cause != nil && body.Error == "" && body.Message == "" {
		body.Message = serr.UnknownErrorMessage
	}
	return serr.NewBackendError(res.StatusCode, body, cause)
}

// decodeJSONOrOK декодирует JSON-ответ в resp.
//
// resp == nil — тело не декодируется. Пустое тело (io.EOF) ошибкой не считается.
func decodeJSONOrOK(res *http.Response, resp any) error {
	if resp == nil {
		return nil
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &serr.MalformedResponseError{Status: res.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, resp); err != nil {
		return &serr.MalformedResponseError{Status: res.StatusCode, Snippet: snippet(raw), Err: err}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > snippetLen {
		return s[:snippetLen] + "..."
	}
	return s
}

// String не раскрывает API-ключ при логировании.
func (c *Client) String() string {
	return fmt.Sprintf("gateway.Client{base=%s}", c.baseURL)
}
