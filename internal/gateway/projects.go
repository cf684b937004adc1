// В этом файле описаны именованные операции над прокси-проектами.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/models"
)

// CreateProject создаёт прокси-проект.
//
// Выполняет запрос:
//
//	POST /
func (c *Client) CreateProject(ctx context.Context, claims assertion.UserAssertionClaims, cfg models.ProjectConfig) (models.Project, error) {
	var resp models.Project
	err := c.Request(ctx, http.MethodPost, "/", cfg, claims, &resp)
	return resp, err
}

// ListProjects возвращает страницу проектов, доступных пользователю.
//
// Выполняет запрос:
//
//	GET /projects?page=&limit=&search=&team_id=
//
// Незаданные параметры в query не попадают.
func (c *Client) ListProjects(ctx context.Context, claims assertion.UserAssertionClaims, params models.ListProjectsParams) (models.ProjectList, error) {
	var resp models.ProjectList
	if params.Page < 0 || params.Limit < 0 {
		return resp, serr.NewValidationError("page/limit", "must not be negative")
	}
	values, err := query.Values(params)
	if err != nil {
		return resp, &serr.ValidationError{Field: "params", Reason: "encode query", Err: err}
	}

	path := "/projects"
	if q := values.Encode(); q != "" {
		path += "?" + q
	}
	err = c.Request(ctx, http.MethodGet, path, nil, claims, &resp)
	return resp, err
}

// GetProjectStatus возвращает снимок состояния развёртывания проекта.
//
// Выполняет запрос:
//
//	GET /projects/{id}/status
func (c *Client) GetProjectStatus(ctx context.Context, claims assertion.UserAssertionClaims, id string) (models.ProjectStatus, error) {
	var resp models.ProjectStatus
	seg, err := segment("id", id)
	if err != nil {
		return resp, err
	}
	err = c.Request(ctx, http.MethodGet, fmt.Sprintf("/projects/%s/status", seg), nil, claims, &resp)
	return resp, err
}

// UpdateProject обновляет конфигурацию проекта конкретной версии.
//
// Выполняет запрос:
//
//	PATCH /{id}/{version}
//
// Передаются только изменяемые поля cfg.
func (c *Client) UpdateProject(ctx context.Context, claims assertion.UserAssertionClaims, id, version string, cfg models.ProjectConfig) (models.Project, error) {
	var resp models.Project
	path, err := versionPath(id, version)
	if err != nil {
		return resp, err
	}
	err = c.Request(ctx, http.MethodPatch, path, cfg, claims, &resp)
	return resp, err
}

// DeleteProject удаляет проект конкретной версии.
//
// Выполняет запрос:
//
//	DELETE /{id}/{version}
//
// При 204 No Content возвращает нулевой DeleteProjectResponse и nil.
func (c *Client) DeleteProject(ctx context.Context, claims assertion.UserAssertionClaims, id, version string) (models.DeleteProjectResponse, error) {
	var resp models.DeleteProjectResponse
	path, err := versionPath(id, version)
	if err != nil {
		return resp, err
	}
	err = c.Request(ctx, http.MethodDelete, path, nil, claims, &resp)
	return resp, err
}

func versionPath(id, version string) (string, error) {
	idSeg, err := segment("id", id)
	if err != nil {
		return "", err
	}
	verSeg, err := segment("version", version)
	if err != nil {
		return "", err
	}
	return "/" + idSeg + "/" + verSeg, nil
}

// segment проверяет и экранирует один сегмент пути.
func segment(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", serr.NewValidationError(field, "required")
	}
	return url.PathEscape(v), nil
}
