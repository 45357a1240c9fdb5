package driven

import (
	"context"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
)

// PlatformGateway defines the driven port for talking to social platforms.
type PlatformGateway interface {
	// Validate reports whether the platform currently accepts the draft's
	// bearer credential. It never returns an error: an invalid credential,
	// a non-2xx response, and a network failure all yield false.
	Validate(ctx context.Context, draft model.CredentialDraft) bool

	// AuthorizationURL builds the platform's OAuth authorization URL.
	// Returns "" for an unrecognized platform name.
	AuthorizationURL(platform, clientID, redirectURI string) string

	// Scopes returns the OAuth scopes configured for the platform.
	Scopes(platform model.Platform) []string

	// Describe returns the platform API's display name and description, or
	// two empty strings for an unregistered platform.
	Describe(platform model.Platform) (name, description string)
}
