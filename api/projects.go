package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/repository"
	"github.com/gorilla/mux"
)

type ProjectsHandler struct {
	store repository.ProjectStore
}

func NewProjectsHandler(store repository.ProjectStore) *ProjectsHandler {
	return &ProjectsHandler{store: store}
}

// projectResponse is the presentation view of a project. The credential is
// masked; the raw secret never leaves the store boundary.
type projectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	EndpointURL string `json:"endpoint_url"`
	Credential  string `json:"credential"`
	Method      string `json:"check_method"`
	TableName   string `json:"table_name,omitempty"`
	Enabled     bool   `json:"enabled"`
	LastStatus  string `json:"last_status,omitempty"`
	LastChecked string `json:"last_checked,omitempty"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

func toProjectResponse(p models.Project) projectResponse {
	resp := projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		EndpointURL: p.EndpointURL,
		Credential:  p.MaskedCredential(),
		Method:      string(p.Method),
		TableName:   p.TableName,
		Enabled:     p.Enabled,
		LastStatus:  p.LastStatus,
		Created:     millisToRFC3339(p.Created),
		Updated:     millisToRFC3339(p.Updated),
	}
	if p.LastChecked != 0 {
		resp.LastChecked = millisToRFC3339(p.LastChecked)
	}
	return resp
}

func millisToRFC3339(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

type createProjectRequest struct {
	Name        string `json:"name"`
	EndpointURL string `json:"endpoint_url"`
	Credential  string `json:"credential"`
	Method      string `json:"check_method"`
	TableName   string `json:"table_name"`
	Enabled     *bool  `json:"enabled"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.Method == "" {
		req.Method = string(models.MethodRPC)
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	p, err := h.store.Create(r.Context(), repository.CreateProjectParams{
		Name:        strings.TrimSpace(req.Name),
		EndpointURL: strings.TrimSpace(req.EndpointURL),
		Credential:  req.Credential,
		Method:      models.CheckMethod(req.Method),
		TableName:   strings.TrimSpace(req.TableName),
		Enabled:     enabled,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	writeJSON(w, toProjectResponse(*p), http.StatusCreated)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	enabledOnly := r.URL.Query().Get("enabled") == "true"

	projects, err := h.store.List(r.Context(), enabledOnly)
	if err != nil {
		storeError(w, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.store.Get(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, toProjectResponse(*p), http.StatusOK)
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	EndpointURL *string `json:"endpoint_url"`
	Credential  *string `json:"credential"`
	Method      *string `json:"check_method"`
	TableName   *string `json:"table_name"`
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	params := repository.UpdateProjectParams{
		Name:        req.Name,
		EndpointURL: req.EndpointURL,
		Credential:  req.Credential,
		TableName:   req.TableName,
	}
	if req.Method != nil {
		m := models.CheckMethod(*req.Method)
		params.Method = &m
	}

	p, err := h.store.Update(r.Context(), id, params)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, toProjectResponse(*p), http.StatusOK)
}

func (h *ProjectsHandler) SetEnabled(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		p, err := h.store.SetEnabled(r.Context(), id, enabled)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, toProjectResponse(*p), http.StatusOK)
	}
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
