package platform

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PlatformGateway = (*Dispatcher)(nil)

// Dispatcher selects the platform-specific client for each operation from a
// table keyed by platform.
type Dispatcher struct {
	clients map[model.Platform]PlatformClient
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher with no registered platforms.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		clients: make(map[model.Platform]PlatformClient),
		logger:  logger,
	}
}

// NewDefaultDispatcher registers one Client per entry in endpoints, all
// sharing httpClient.
func NewDefaultDispatcher(endpoints map[model.Platform]Endpoint, httpClient *http.Client, logger *slog.Logger) *Dispatcher {
	d := NewDispatcher(logger)
	for _, p := range model.AllPlatforms() {
		if ep, ok := endpoints[p]; ok {
			d.Register(NewClient(ep, httpClient, logger))
		}
	}
	return d
}

// Register adds or replaces the client for its platform.
func (d *Dispatcher) Register(client PlatformClient) {
	d.clients[client.Platform()] = client
}

// Validate dispatches on the draft's platform. Unknown platforms, drafts
// whose secret fields do not match the platform's required set, and drafts
// without a bearer token are rejected without a network call.
func (d *Dispatcher) Validate(ctx context.Context, draft model.CredentialDraft) bool {
	client, ok := d.clients[draft.Platform]
	if !ok {
		d.logger.Debug("validation for unsupported platform", "platform", draft.Platform)
		return false
	}

	if err := model.CheckSecretShape(draft.Platform, draft.SecretFields); err != nil {
		d.logger.Debug("validation skipped for malformed credential", "platform", draft.Platform, "error", err)
		return false
	}

	return client.Validate(ctx, draft.BearerToken())
}

// AuthorizationURL returns the platform's OAuth authorization URL, or "" if
// platform names no registered platform.
func (d *Dispatcher) AuthorizationURL(platform, clientID, redirectURI string) string {
	client, ok := d.clients[model.Platform(platform)]
	if !ok {
		return ""
	}
	return client.AuthURL(clientID, redirectURI)
}

// Scopes returns the platform's configured scopes, or nil if unregistered.
func (d *Dispatcher) Scopes(platform model.Platform) []string {
	client, ok := d.clients[platform]
	if !ok {
		return nil
	}
	return client.Scopes()
}

// Describe returns the platform's display name and description.
func (d *Dispatcher) Describe(platform model.Platform) (name, description string) {
	client, ok := d.clients[platform]
	if !ok {
		return "", ""
	}
	return client.Describe()
}
