package model

import "time"

// PostStatus represents the publishing state of a scheduled post.
type PostStatus string

const (
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPosted    PostStatus = "posted"
	PostStatusFailed    PostStatus = "failed"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusScheduled, PostStatusPosted, PostStatusFailed:
		return true
	}
	return false
}

// ScheduledPost is a piece of content planned for one or more platforms.
type ScheduledPost struct {
	ID          string
	Title       string
	Content     string // Markdown.
	Platforms   []Platform
	ScheduledAt time.Time
	MediaURLs   []string
	Status      PostStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScheduledDay returns the UTC calendar day the post is scheduled for,
// formatted as YYYY-MM-DD.
func (p ScheduledPost) ScheduledDay() string {
	return p.ScheduledAt.UTC().Format(time.DateOnly)
}

// NewPost holds the user-supplied fields for a post to schedule.
type NewPost struct {
	Title       string
	Content     string
	Platforms   []Platform
	ScheduledAt time.Time
	MediaURLs   []string
}

// PostUpdate carries the fields to merge into an existing post. Nil fields
// are left untouched.
type PostUpdate struct {
	Title       *string
	Content     *string
	Platforms   []Platform
	ScheduledAt *time.Time
	MediaURLs   []string
	Status      *PostStatus
}
