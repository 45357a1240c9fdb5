package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/socialhub/internal/application"
	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
	"github.com/ericfisherdev/socialhub/internal/metrics"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	registry    *application.CredentialRegistry
	connectSvc  *application.ConnectService
	scheduleSvc *application.ScheduleService
	gateway     driven.PlatformGateway
	redirectURI string
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. redirectURI is
// used for auth-url requests that do not name one.
func NewHandler(
	registry *application.CredentialRegistry,
	connectSvc *application.ConnectService,
	scheduleSvc *application.ScheduleService,
	gateway driven.PlatformGateway,
	redirectURI string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		registry:    registry,
		connectSvc:  connectSvc,
		scheduleSvc: scheduleSvc,
		gateway:     gateway,
		redirectURI: redirectURI,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging, metrics, and recovery middleware. A nil m disables the
// /metrics route.
func NewServeMux(h *Handler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/platforms", h.ListPlatforms)
	mux.HandleFunc("GET /api/v1/platforms/{platform}/auth-url", h.AuthURL)

	mux.HandleFunc("GET /api/v1/credentials", h.ListCredentials)
	mux.HandleFunc("POST /api/v1/credentials", h.ConnectCredential)
	mux.HandleFunc("PATCH /api/v1/credentials/{id}", h.UpdateCredential)
	mux.HandleFunc("DELETE /api/v1/credentials/{id}", h.RemoveCredential)
	mux.HandleFunc("POST /api/v1/credentials/{id}/validate", h.ValidateCredential)

	mux.HandleFunc("GET /api/v1/posts", h.ListPosts)
	mux.HandleFunc("POST /api/v1/posts", h.SchedulePost)
	mux.HandleFunc("GET /api/v1/posts/{id}", h.GetPost)
	mux.HandleFunc("PATCH /api/v1/posts/{id}", h.UpdatePost)
	mux.HandleFunc("DELETE /api/v1/posts/{id}", h.RemovePost)
	mux.HandleFunc("GET /api/v1/posts/{id}/preview", h.PreviewPost)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Recovery innermost so panics are caught before metrics and logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = metricsMiddleware(m, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListPlatforms returns the supported platforms with their API name,
// description, secret field sets, and OAuth scopes.
func (h *Handler) ListPlatforms(w http.ResponseWriter, _ *http.Request) {
	platforms := model.AllPlatforms()
	resp := make([]PlatformResponse, 0, len(platforms))
	for _, p := range platforms {
		scopes := h.gateway.Scopes(p)
		if scopes == nil {
			scopes = []string{}
		}
		name, description := h.gateway.Describe(p)
		resp = append(resp, PlatformResponse{
			ID:             string(p),
			Name:           name,
			Description:    description,
			RequiredFields: p.RequiredFields(),
			BearerField:    p.BearerField(),
			Scopes:         scopes,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// AuthURL returns the OAuth authorization URL for a platform. An unknown
// platform yields 404 with an empty url. Unlike the credential routes, the
// platform path segment is matched exactly: "YouTube" is unknown here even
// though POST /api/v1/credentials accepts it.
func (h *Handler) AuthURL(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		redirectURI = h.redirectURI
	}

	u := h.gateway.AuthorizationURL(r.PathValue("platform"), r.URL.Query().Get("client_id"), redirectURI)
	if u == "" {
		writeJSON(w, http.StatusNotFound, AuthURLResponse{URL: ""})
		return
	}

	writeJSON(w, http.StatusOK, AuthURLResponse{URL: u})
}

// ListCredentials returns stored credentials, optionally filtered by the
// platform query parameter. Secrets are always masked.
func (h *Handler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	var records []model.CredentialRecord
	if raw := r.URL.Query().Get("platform"); raw != "" {
		platform, err := model.ParsePlatform(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		records = h.registry.ListByPlatform(platform)
	} else {
		records = h.registry.List()
	}

	resp := make([]CredentialResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toCredentialResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ConnectCredential validates a credential with its platform and stores it
// when accepted.
func (h *Handler) ConnectCredential(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	platform, err := model.ParsePlatform(req.Platform)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := SanitizeLabel(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rec, err := h.connectSvc.Connect(r.Context(), model.CredentialDraft{
		Platform:     platform,
		DisplayName:  name,
		SecretFields: req.SecretFields,
	})
	if err != nil {
		h.writeCredentialError(w, "connect", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCredentialResponse(rec))
}

// UpdateCredential merges a partial update into a stored credential. The
// platform of a record never changes.
func (h *Handler) UpdateCredential(w http.ResponseWriter, r *http.Request) {
	var req UpdateCredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var upd model.CredentialUpdate
	if req.Name != nil {
		name := SanitizeLabel(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		upd.DisplayName = &name
	}
	if req.Platform != nil {
		p := model.Platform(*req.Platform)
		upd.Platform = &p
	}
	upd.SecretFields = req.SecretFields

	rec, err := h.registry.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		h.writeCredentialError(w, "update", err)
		return
	}

	writeJSON(w, http.StatusOK, toCredentialResponse(rec))
}

// RemoveCredential deletes a stored credential. Unknown ids still yield 204.
func (h *Handler) RemoveCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.logger.Error("failed to remove credential", "id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ValidateCredential re-validates a stored credential with its platform.
func (h *Handler) ValidateCredential(w http.ResponseWriter, r *http.Request) {
	valid, err := h.connectSvc.Recheck(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeCredentialError(w, "validate", err)
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Valid: valid})
}

// ListPosts returns all scheduled posts, or those on the day named by the
// date query parameter (YYYY-MM-DD, UTC).
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var (
		posts []model.ScheduledPost
		err   error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, parseErr := time.Parse(time.DateOnly, raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
			return
		}
		posts, err = h.scheduleSvc.ListByDate(r.Context(), day)
	} else {
		posts, err = h.scheduleSvc.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SchedulePost adds a post to the content calendar.
func (h *Handler) SchedulePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	at, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheduled_at: expected RFC 3339 timestamp")
		return
	}

	post, err := h.scheduleSvc.Schedule(r.Context(), model.NewPost{
		Title:       req.Title,
		Content:     req.Content,
		Platforms:   toPlatforms(req.Platforms),
		ScheduledAt: at,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		h.writePostError(w, "schedule", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// GetPost returns a single scheduled post.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.scheduleSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writePostError(w, "get", err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// UpdatePost merges a partial update into a scheduled post.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	upd := model.PostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Platforms: toPlatforms(req.Platforms),
		MediaURLs: req.MediaURLs,
	}
	if req.ScheduledAt != nil {
		at, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid scheduled_at: expected RFC 3339 timestamp")
			return
		}
		upd.ScheduledAt = &at
	}
	if req.Status != nil {
		status := model.PostStatus(*req.Status)
		upd.Status = &status
	}

	post, err := h.scheduleSvc.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		h.writePostError(w, "update", err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// RemovePost deletes a scheduled post. Unknown ids still yield 204.
func (h *Handler) RemovePost(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduleSvc.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.logger.Error("failed to remove post", "id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PreviewPost renders a post's markdown content to sanitized HTML.
func (h *Handler) PreviewPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.scheduleSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writePostError(w, "preview", err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewResponse{HTML: RenderMarkdown(post.Content)})
}

// decodeBody decodes a JSON request body into v. On failure it writes a 400
// and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeCredentialError maps registry and connect errors to HTTP responses.
func (h *Handler) writeCredentialError(w http.ResponseWriter, op string, err error) {
	var shapeErr *model.ShapeError
	switch {
	case errors.As(err, &shapeErr):
		writeJSON(w, http.StatusBadRequest, shapeErrorResponse{
			Error:      shapeErr.Error(),
			Missing:    nonNil(shapeErr.Missing),
			Unexpected: nonNil(shapeErr.Unexpected),
		})
	case errors.Is(err, driven.ErrCredentialRejected):
		writeError(w, http.StatusUnprocessableEntity, "credential rejected by platform")
	case errors.Is(err, driven.ErrCredentialNotFound):
		writeError(w, http.StatusNotFound, "credential not found")
	default:
		h.logger.Error("credential request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writePostError maps schedule service errors to HTTP responses.
func (h *Handler) writePostError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidPost):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, driven.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "scheduled post not found")
	default:
		h.logger.Error("post request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
