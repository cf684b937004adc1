package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/models"
)

// ListProjects возвращает проекты, доступные пользователю сессии.
//
// Query-параметры page, limit, search, team_id пересылаются как есть;
// page и limit должны быть неотрицательными числами.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	params := models.ListProjectsParams{
		Search: q.Get("search"),
		TeamID: q.Get("team_id"),
	}
	var err error
	if params.Page, err = intParam(q.Get("page")); err != nil {
		WriteError(w, http.StatusBadRequest, serr.NewValidationError("page", "must be a non-negative integer"))
		return
	}
	if params.Limit, err = intParam(q.Get("limit")); err != nil {
		WriteError(w, http.StatusBadRequest, serr.NewValidationError("limit", "must be a non-negative integer"))
		return
	}

	list, err := h.Projects.ListProjects(r.Context(), user, params)
	if err != nil {
		h.writeUpstreamError(w, r, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateProject создаёт прокси-проект.
//
// Тело запроса — ProjectConfig; на бэкенд оно уходит одной сериализацией,
// по ней же считается bod утверждения.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var cfg models.ProjectConfig
	if !h.decodeBody(w, r, &cfg) {
		return
	}

	p, err := h.Projects.CreateProject(r.Context(), user, cfg)
	if err != nil {
		h.writeUpstreamError(w, r, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetProjectStatus возвращает статус развёртывания проекта {id}.
func (h *Handler) GetProjectStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	st, err := h.Projects.GetProjectStatus(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.writeUpstreamError(w, r, "get project status", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateProject обновляет проект {id} версии {version}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var cfg models.ProjectConfig
	if !h.decodeBody(w, r, &cfg) {
		return
	}

	p, err := h.Projects.UpdateProject(r.Context(), user, chi.URLParam(r, "id"), chi.URLParam(r, "version"), cfg)
	if err != nil {
		h.writeUpstreamError(w, r, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject удаляет проект {id} версии {version}.
//
// Если бэкенд ответил 204 без тела, отвечаем тоже 204.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	resp, err := h.Projects.DeleteProject(r.Context(), user, chi.URLParam(r, "id"), chi.URLParam(r, "version"))
	if err != nil {
		h.writeUpstreamError(w, r, "delete project", err)
		return
	}
	if resp == (models.DeleteProjectResponse{}) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Healthz — проверка живости процесса.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
