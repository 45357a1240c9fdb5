package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// shapeErrorResponse reports which secret fields were missing or unexpected.
type shapeErrorResponse struct {
	Error      string   `json:"error"`
	Missing    []string `json:"missing"`
	Unexpected []string `json:"unexpected"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// PlatformResponse describes one supported platform.
type PlatformResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredFields []string `json:"required_fields"`
	BearerField    string   `json:"bearer_field"`
	Scopes         []string `json:"scopes"`
}

// AuthURLResponse carries an OAuth authorization URL.
type AuthURLResponse struct {
	URL string `json:"url"`
}

// CredentialResponse is the JSON representation of a credential record.
// Secret values are always the placeholder marker.
type CredentialResponse struct {
	ID           string            `json:"id"`
	Platform     string            `json:"platform"`
	Name         string            `json:"name"`
	SecretFields map[string]string `json:"secret_fields"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

// ConnectRequest is the JSON body for the connect endpoint.
type ConnectRequest struct {
	Platform     string            `json:"platform"`
	Name         string            `json:"name"`
	SecretFields map[string]string `json:"secret_fields"`
}

// UpdateCredentialRequest is the JSON body for the credential update
// endpoint. Absent fields are left unchanged.
type UpdateCredentialRequest struct {
	Name         *string           `json:"name"`
	Platform     *string           `json:"platform"`
	SecretFields map[string]string `json:"secret_fields"`
}

// ValidateResponse is the outcome of re-validating a stored credential.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// PostResponse is the JSON representation of a scheduled post.
type PostResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	ScheduledAt string   `json:"scheduled_at"`
	MediaURLs   []string `json:"media_urls"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// CreatePostRequest is the JSON body for the schedule endpoint.
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	ScheduledAt string   `json:"scheduled_at"`
	MediaURLs   []string `json:"media_urls"`
}

// UpdatePostRequest is the JSON body for the post update endpoint. Absent
// fields are left unchanged.
type UpdatePostRequest struct {
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	Platforms   []string `json:"platforms"`
	ScheduledAt *string  `json:"scheduled_at"`
	MediaURLs   []string `json:"media_urls"`
	Status      *string  `json:"status"`
}

// PreviewResponse carries rendered post content.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// toCredentialResponse converts a record to its JSON representation, masking
// every secret value.
func toCredentialResponse(rec model.CredentialRecord) CredentialResponse {
	masked := rec.Masked()
	return CredentialResponse{
		ID:           masked.ID,
		Platform:     string(masked.Platform),
		Name:         masked.DisplayName,
		SecretFields: masked.SecretFields,
		CreatedAt:    masked.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    masked.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toPostResponse converts a domain ScheduledPost to its JSON representation.
func toPostResponse(p model.ScheduledPost) PostResponse {
	platforms := make([]string, 0, len(p.Platforms))
	for _, pl := range p.Platforms {
		platforms = append(platforms, string(pl))
	}
	media := p.MediaURLs
	if media == nil {
		media = []string{}
	}

	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Platforms:   platforms,
		ScheduledAt: p.ScheduledAt.UTC().Format(time.RFC3339),
		MediaURLs:   media,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toPlatforms normalizes raw platform names. Unknown names pass through
// unchanged for the schedule service to reject.
func toPlatforms(names []string) []model.Platform {
	if names == nil {
		return nil
	}
	out := make([]model.Platform, 0, len(names))
	for _, n := range names {
		if p, err := model.ParsePlatform(n); err == nil {
			out = append(out, p)
			continue
		}
		out = append(out, model.Platform(n))
	}
	return out
}
