package models

import "time"

// ThrottlingConfig — ограничение частоты запросов к прокси.
type ThrottlingConfig struct {
	RequestsPerMinute int `json:"requests_per_minute"`
	Burst             int `json:"burst,omitempty"`
}

// OAuthConfig — настройки пула OAuth-пользователей проекта.
type OAuthConfig struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"` // github|google|...
	ClientID string   `json:"client_id,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
	UserPool string   `json:"user_pool,omitempty"`
}

// ProjectConfig — конфигурация прокси-проекта.
//
// Используется в:
//
//	POST /
//	PATCH /{id}/{version}
//
// Для PATCH передаются только изменяемые поля (omitempty).
type ProjectConfig struct {
	Name       string            `json:"name,omitempty"`
	Target     string            `json:"target,omitempty"`
	TeamID     string            `json:"team_id,omitempty"`
	Throttling *ThrottlingConfig `json:"throttling,omitempty"`
	OAuth      *OAuthConfig      `json:"oauth,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Project — прокси-проект в том виде, в каком его возвращает бэкенд.
//
// Поля:
//   - ID: идентификатор проекта
//   - Version: версия конфигурации (используется в PATCH/DELETE)
//   - URL: публичный адрес прокси
//   - Status: текущее состояние развёртывания
type Project struct {
	ID         string            `json:"id"`
	Version    string            `json:"version"`
	Name       string            `json:"name,omitempty"`
	Target     string            `json:"target,omitempty"`
	TeamID     string            `json:"team_id,omitempty"`
	URL        string            `json:"url,omitempty"`
	Status     string            `json:"status,omitempty"`
	Owner      string            `json:"owner,omitempty"`
	Throttling *ThrottlingConfig `json:"throttling,omitempty"`
	OAuth      *OAuthConfig      `json:"oauth,omitempty"`
	CreatedAt  time.Time         `json:"created_at,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
}

// ListProjectsParams — параметры выборки списка проектов.
//
// Используется в:
//
//	GET /projects?page=&limit=&search=&team_id=
//
// Нулевые значения в query не попадают.
type ListProjectsParams struct {
	Page   int    `url:"page,omitempty"`
	Limit  int    `url:"limit,omitempty"`
	Search string `url:"search,omitempty"`
	TeamID string `url:"team_id,omitempty"`
}

// ProjectList — ответ GET /projects.
type ProjectList struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
	Page     int       `json:"page,omitempty"`
	Limit    int       `json:"limit,omitempty"`
}

// Deployment — одно развёртывание проекта.
type Deployment struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ProjectStatus — снимок состояния развёртывания проекта.
//
// Используется в:
//
//	GET /projects/{id}/status
type ProjectStatus struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	Version        string       `json:"version,omitempty"`
	URL            string       `json:"url,omitempty"`
	Message        string       `json:"message,omitempty"`
	LastDeployedAt *time.Time   `json:"last_deployed_at,omitempty"`
	Deployments    []Deployment `json:"deployments,omitempty"`
}

// DeleteProjectResponse — ответ на удаление проекта, если бэкенд возвращает JSON.
//
// При 204 No Content остаётся нулевым значением.
type DeleteProjectResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}
