package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
)

// ErrPostNotFound indicates the requested scheduled post does not exist.
var ErrPostNotFound = errors.New("scheduled post not found")

// PostStore defines the driven port for scheduled post persistence.
// Update returns ErrPostNotFound if the post does not exist; Delete does not.
type PostStore interface {
	Insert(ctx context.Context, post model.ScheduledPost) error
	Update(ctx context.Context, post model.ScheduledPost) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.ScheduledPost, error)
	ListAll(ctx context.Context) ([]model.ScheduledPost, error)

	// ListBetween returns posts scheduled in [from, to), ordered by scheduled time.
	ListBetween(ctx context.Context, from, to time.Time) ([]model.ScheduledPost, error)
}
