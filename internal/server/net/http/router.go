// Package http реализует маршрутизацию HTTP-слоя сервера дашборда.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - проверку сессионных токенов пользователей.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/api"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware восстановления после паники и логирования для всех запросов;
//   - публичный /healthz;
//   - группу защищённых сессией эндпоинтов /api/projects.
func NewRouter(h *api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	r.Get("/healthz", h.Healthz)

	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка сессионного токена
		r.Use(h.Verifier.AuthMiddleware())
		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}/status", h.GetProjectStatus)
			r.Patch("/{id}/{version}", h.UpdateProject)
			r.Delete("/{id}/{version}", h.DeleteProject)
		})
	})

	return r
}
