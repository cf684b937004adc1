// Package api реализует HTTP-слой сервера дашборда.
//
// Пакет отвечает за:
//   - обработку запросов браузера и формирование ответов (JSON, статусы);
//   - пересылку вызовов во внутреннее API от имени пользователя сессии;
//   - маппинг типизированных ошибок клиента бэкенда в HTTP-коды и сообщения.
//
// Сервер не хранит состояния проектов: каждый хендлер — тонкий форвардер.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/models"
)

const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"

	defaultMaxBodyBytes int64 = 1 << 20
)

//go:generate mockgen -source=handler.go -destination=mocks/projects_mock.go -package=mocks

// ProjectsAPI — операции внутреннего API, которые пересылает дашборд.
//
// *gateway.Client реализует этот интерфейс.
type ProjectsAPI interface {
	CreateProject(ctx context.Context, claims assertion.UserAssertionClaims, cfg models.ProjectConfig) (models.Project, error)
	ListProjects(ctx context.Context, claims assertion.UserAssertionClaims, params models.ListProjectsParams) (models.ProjectList, error)
	GetProjectStatus(ctx context.Context, claims assertion.UserAssertionClaims, id string) (models.ProjectStatus, error)
	UpdateProject(ctx context.Context, claims assertion.UserAssertionClaims, id, version string, cfg models.ProjectConfig) (models.Project, error)
	DeleteProject(ctx context.Context, claims assertion.UserAssertionClaims, id, version string) (models.DeleteProjectResponse, error)
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Projects: клиент внутреннего API;
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: проверка сессионного токена и middleware авторизации;
//   - MaxBodyBytes: лимит тела входящего запроса.
type Handler struct {
	Projects     ProjectsAPI
	Log          *logger.HTTPLogger
	Verifier     *middleware.SessionVerifier
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(projects ProjectsAPI, log *logger.HTTPLogger, verifier *middleware.SessionVerifier, maxBodyBytes int64) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		Projects:     projects,
		Log:          log,
		Verifier:     verifier,
		MaxBodyBytes: maxBodyBytes,
	}
}

// ErrorResponse стандартный формат ошибки API дашборда.
//
// Reauth=true сообщает фронтенду, что нужно заново пройти логин.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Details     any      `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Reauth      bool     `json:"reauth,omitempty"`
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// writeUpstreamError переводит ошибку клиента бэкенда в ответ браузеру.
//
//   - BackendError — тот же статус и тело; для 401 добавляется reauth;
//   - ValidationError — 400;
//   - TransportError — 502, при таймауте 504;
//   - SigningError и прочее — 500 без деталей.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var be *serr.BackendError
	var te *serr.TransportError
	switch {
	case errors.As(err, &be):
		writeJSON(w, be.Status, ErrorResponse{
			Error:       be.Message(),
			Details:     be.Body.Details,
			Suggestions: be.Body.Suggestions,
			Reauth:      serr.IsUnauthorized(be),
		})
	case errors.Is(err, serr.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err)
	case errors.As(err, &te):
		h.Log.Warn(op+" failed", zap.Error(err))
		status := http.StatusBadGateway
		if te.Timeout {
			status = http.StatusGatewayTimeout
		}
		WriteError(w, status, errors.New("backend unavailable"))
	default:
		h.Log.Error(op+" failed",
			zap.Error(err),
			zap.String("uri", r.RequestURI),
		)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}

// user достаёт личность из контекста; при её отсутствии пишет 401.
func (h *Handler) user(w http.ResponseWriter, r *http.Request) (assertion.UserAssertionClaims, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: serr.ErrUnauthorized.Error(), Reauth: true})
	}
	return u, ok
}

// decodeBody читает JSON-тело запроса с лимитом MaxBodyBytes.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			WriteError(w, http.StatusRequestEntityTooLarge, err)
			return false
		}
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
