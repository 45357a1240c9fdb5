package driven

import (
	"context"
	"errors"
)

// Sentinel errors for credential registry operations.
var (
	// ErrCredentialNotFound indicates no credential record has the requested id.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialRejected indicates the platform did not accept the credential,
	// or could not be reached. The two causes are deliberately indistinguishable.
	ErrCredentialRejected = errors.New("credential rejected by platform")
)

// SnapshotStore defines the driven port for named durable blobs. The
// credential registry writes its whole (masked) collection under one name on
// every mutation.
type SnapshotStore interface {
	// Save stores data under name, replacing any previous blob.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns the blob stored under name.
	// Returns (nil, nil) if nothing has been saved under that name.
	Load(ctx context.Context, name string) ([]byte, error)
}
