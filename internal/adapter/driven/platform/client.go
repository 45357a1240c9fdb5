package platform

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
)

// PlatformClient is the per-platform capability the Dispatcher selects from.
type PlatformClient interface {
	Platform() model.Platform
	Validate(ctx context.Context, token string) bool
	AuthURL(clientID, redirectURI string) string
	Scopes() []string
	Describe() (name, description string)
}

// Compile-time interface satisfaction check.
var _ PlatformClient = (*Client)(nil)

// Client validates credentials against one platform's fixed endpoint.
type Client struct {
	endpoint Endpoint
	http     *http.Client
	logger   *slog.Logger
}

// NewHTTPClient returns the shared outbound client used for validation:
// an httpcache transport (ETag revalidation) with the given overall timeout.
// A zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	client := httpcache.NewMemoryCacheTransport().Client()
	client.Timeout = timeout
	return client
}

// NewClient creates a Client for endpoint using httpClient for requests.
func NewClient(endpoint Endpoint, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		logger:   logger,
	}
}

// Platform returns the platform this client serves.
func (c *Client) Platform() model.Platform {
	return c.endpoint.Platform
}

// Scopes returns a copy of the platform's configured OAuth scopes.
func (c *Client) Scopes() []string {
	return slices.Clone(c.endpoint.Scopes)
}

// Describe returns the endpoint's display name and description.
func (c *Client) Describe() (name, description string) {
	return c.endpoint.Name, c.endpoint.Description
}

// Validate issues one authenticated GET to the platform's validation endpoint
// and reports whether it succeeded with a 2xx status. Transport failures are
// logged and reported as false; nothing is retried.
func (c *Client) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.ValidationURL(), nil)
	if err != nil {
		c.logger.Debug("build validation request failed", "platform", c.endpoint.Platform, "error", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	// Never serve a cached answer without asking the platform. A cached body
	// is only reused when the platform answers 304 for this token.
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("validation request failed", "platform", c.endpoint.Platform, "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		c.logger.Debug("validation rejected", "platform", c.endpoint.Platform, "status", resp.StatusCode)
	}
	return ok
}

// AuthURL builds the OAuth authorization URL with client_id, redirect_uri,
// response_type=code and the space-joined scope list. redirect_uri is always
// present, even when empty.
func (c *Client) AuthURL(clientID, redirectURI string) string {
	cfg := oauth2.Config{
		ClientID: clientID,
		Scopes:   c.endpoint.Scopes,
		Endpoint: oauth2.Endpoint{AuthURL: c.endpoint.AuthURL},
	}
	return cfg.AuthCodeURL("", oauth2.SetAuthURLParam("redirect_uri", redirectURI))
}
