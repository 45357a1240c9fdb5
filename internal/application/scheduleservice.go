package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

// ErrInvalidPost is returned when a post is missing a title or targets no
// supported platform.
var ErrInvalidPost = errors.New("invalid scheduled post")

// ScheduleService manages the content calendar.
type ScheduleService struct {
	store  driven.PostStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewScheduleService creates a ScheduleService backed by store.
func NewScheduleService(store driven.PostStore, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Schedule stores a new post with status scheduled.
func (s *ScheduleService) Schedule(ctx context.Context, np model.NewPost) (model.ScheduledPost, error) {
	title := strings.TrimSpace(np.Title)
	if title == "" {
		return model.ScheduledPost{}, fmt.Errorf("%w: title is required", ErrInvalidPost)
	}
	platforms, err := normalizePlatforms(np.Platforms)
	if err != nil {
		return model.ScheduledPost{}, err
	}
	if np.ScheduledAt.IsZero() {
		return model.ScheduledPost{}, fmt.Errorf("%w: scheduled time is required", ErrInvalidPost)
	}

	now := s.now()
	post := model.ScheduledPost{
		ID:          s.newID(),
		Title:       title,
		Content:     np.Content,
		Platforms:   platforms,
		ScheduledAt: np.ScheduledAt.UTC(),
		MediaURLs:   np.MediaURLs,
		Status:      model.PostStatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Insert(ctx, post); err != nil {
		return model.ScheduledPost{}, err
	}

	s.logger.Info("post scheduled", "id", post.ID, "scheduled_at", post.ScheduledAt, "platforms", post.Platforms)
	return post, nil
}

// Remove deletes a post. An unknown id is not an error.
func (s *ScheduleService) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Update merges upd into the post with id. Returns driven.ErrPostNotFound for
// an unknown id.
func (s *ScheduleService) Update(ctx context.Context, id string, upd model.PostUpdate) (model.ScheduledPost, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ScheduledPost{}, err
	}
	if existing == nil {
		return model.ScheduledPost{}, fmt.Errorf("update post %s: %w", id, driven.ErrPostNotFound)
	}
	post := *existing

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return model.ScheduledPost{}, fmt.Errorf("%w: title is required", ErrInvalidPost)
		}
		post.Title = title
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.Platforms != nil {
		platforms, err := normalizePlatforms(upd.Platforms)
		if err != nil {
			return model.ScheduledPost{}, err
		}
		post.Platforms = platforms
	}
	if upd.ScheduledAt != nil {
		post.ScheduledAt = upd.ScheduledAt.UTC()
	}
	if upd.MediaURLs != nil {
		post.MediaURLs = upd.MediaURLs
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return model.ScheduledPost{}, fmt.Errorf("%w: unknown status %q", ErrInvalidPost, *upd.Status)
		}
		post.Status = *upd.Status
	}
	post.UpdatedAt = s.now()

	if err := s.store.Update(ctx, post); err != nil {
		return model.ScheduledPost{}, err
	}
	return post, nil
}

// Get returns the post with id, or driven.ErrPostNotFound.
func (s *ScheduleService) Get(ctx context.Context, id string) (model.ScheduledPost, error) {
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ScheduledPost{}, err
	}
	if post == nil {
		return model.ScheduledPost{}, fmt.Errorf("get post %s: %w", id, driven.ErrPostNotFound)
	}
	return *post, nil
}

// List returns every post ordered by scheduled time.
func (s *ScheduleService) List(ctx context.Context) ([]model.ScheduledPost, error) {
	return s.store.ListAll(ctx)
}

// ListByDate returns the posts scheduled on date's UTC calendar day. Store
// results outside that day are dropped.
func (s *ScheduleService) ListByDate(ctx context.Context, date time.Time) ([]model.ScheduledPost, error) {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	posts, err := s.store.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	day := start.Format(time.DateOnly)
	return slices.DeleteFunc(posts, func(p model.ScheduledPost) bool { return p.ScheduledDay() != day }), nil
}

// normalizePlatforms rejects empty or unsupported platform lists and drops
// duplicates, keeping first-seen order.
func normalizePlatforms(in []model.Platform) ([]model.Platform, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one platform is required", ErrInvalidPost)
	}
	out := make([]model.Platform, 0, len(in))
	for _, p := range in {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unsupported platform %q", ErrInvalidPost, p)
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}
