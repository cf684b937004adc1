// Package errors содержит общие ошибки приложения и типизированные ошибки
// протокола подписанных утверждений (assertion) и клиента бэкенда.
//
// Сентинел-ошибки используются для ветвления через errors.Is,
// типизированные ошибки несут детали (HTTP-статус, тело ответа, причину)
// и достаются через errors.As.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неавторизован: бэкенд отверг пользователя или сервисный ключ
	ErrUnauthorized = errors.New("unauthorized")
	// Доступ запрещён
	ErrForbidden = errors.New("forbidden")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// конфликт версий (например, проект уже изменён)
	ErrConflict = errors.New("conflict")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
)

// ошибки протокола и транспорта
var (
	// криптографическая операция подписи завершилась ошибкой
	ErrSigning = errors.New("signing failed")
	// запрос не дошёл до бэкенда или ответ не получен
	ErrTransport = errors.New("transport failure")
	// бэкенд вернул тело, которое невозможно разобрать
	ErrMalformedResponse = errors.New("malformed response")
)

// UnknownErrorMessage — сообщение, подставляемое вместо тела ошибки,
// которое не удалось разобрать.
const UnknownErrorMessage = "Unknown error"

// ValidationError — локальная ошибка валидации: не заполнены обязательные claims,
// не разобран ключ, некорректная конфигурация. Возникает до любого сетевого вызова.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError создаёт ValidationError для поля field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// SigningError — ошибка криптографической операции (подпись, генерация jti).
type SigningError struct {
	Op  string
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSigning, e.Op, e.Err)
}

func (e *SigningError) Unwrap() []error {
	return []error{ErrSigning, e.Err}
}

// ErrorBody — тело ошибки бэкенда.
//
// Бэкенд отдаёт как минимум поле error, опционально details и suggestions.
// Поле message используется как запасной вариант (в том числе для "Unknown error").
type ErrorBody struct {
	Error       string   `json:"error,omitempty"`
	Message     string   `json:"message,omitempty"`
	Details     any      `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// BackendError — бэкенд явно отклонил запрос (не 2xx).
//
// Kind выставляется один раз при создании по HTTP-статусу и дальше
// не выводится из текста сообщения.
type BackendError struct {
	Status int
	Body   ErrorBody
	// Cause — MalformedResponseError, если тело ошибки не удалось разобрать.
	Cause error

	kind error
}

// NewBackendError создаёт BackendError и фиксирует его вид по статусу.
func NewBackendError(status int, body ErrorBody, cause error) *BackendError {
	return &BackendError{
		Status: status,
		Body:   body,
		Cause:  cause,
		kind:   kindForStatus(status),
	}
}

// Message возвращает человекочитаемое сообщение об ошибке бэкенда.
func (e *BackendError) Message() string {
	if msg := strings.TrimSpace(e.Body.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(e.Body.Message); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}

// Kind возвращает сентинел-ошибку, соответствующую статусу (может быть nil).
func (e *BackendError) Kind() error {
	return e.kind
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: status %d: %s", e.Status, e.Message())
}

func (e *BackendError) Unwrap() []error {
	var errs []error
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// TransportError — вызов не дошёл до бэкенда либо валидный HTTP-ответ не получен.
// HTTP-статуса у такой ошибки нет.
type TransportError struct {
	Method  string
	URL     string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	reason := "request failed"
	if e.Timeout {
		reason = "request timed out"
	}
	return fmt.Sprintf("%s: %s %s: %s: %v", ErrTransport, e.Method, e.URL, reason, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// MalformedResponseError — бэкенд ответил телом, которое не является ожидаемым JSON.
type MalformedResponseError struct {
	Status  int
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", ErrMalformedResponse, e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedResponse, e.Err}
	}
	return []error{ErrMalformedResponse}
}

// IsUnauthorized сообщает, требует ли ошибка повторной аутентификации пользователя.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode возвращает HTTP-статус бэкенда, если ошибка его несёт.
func StatusCode(err error) (int, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Status, true
	}
	return 0, false
}

// IsTimeout сообщает, что ошибка вызвана истечением таймаута или дедлайна контекста.
func IsTimeout(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Timeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrInvalidInput
	case status >= 500:
		return ErrInternal
	default:
		return nil
	}
}
