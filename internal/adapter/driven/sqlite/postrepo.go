package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PostStore = (*PostRepo)(nil)

// PostRepo is the SQLite implementation of the PostStore port interface.
// Platforms and media URLs are serialized as JSON arrays in TEXT columns.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new PostRepo backed by the given DB.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

const postColumns = `id, title, content, platforms, media_urls, status, scheduled_at, created_at, updated_at`

// Insert stores a new scheduled post.
func (r *PostRepo) Insert(ctx context.Context, post model.ScheduledPost) error {
	const query = `INSERT INTO scheduled_posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	platforms, mediaURLs, err := marshalPostLists(post)
	if err != nil {
		return err
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, platforms, mediaURLs, string(post.Status),
		formatTime(post.ScheduledAt), formatTime(post.CreatedAt), formatTime(post.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert scheduled post %s: %w", post.ID, err)
	}
	return nil
}

// Update replaces every mutable column of an existing post. Returns
// ErrPostNotFound if no post has the given id.
func (r *PostRepo) Update(ctx context.Context, post model.ScheduledPost) error {
	const query = `
		UPDATE scheduled_posts SET
			title = ?, content = ?, platforms = ?, media_urls = ?, status = ?,
			scheduled_at = ?, updated_at = ?
		WHERE id = ?
	`

	platforms, mediaURLs, err := marshalPostLists(post)
	if err != nil {
		return err
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		post.Title, post.Content, platforms, mediaURLs, string(post.Status),
		formatTime(post.ScheduledAt), formatTime(post.UpdatedAt), post.ID,
	)
	if err != nil {
		return fmt.Errorf("update scheduled post %s: %w", post.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update scheduled post %s: %w", post.ID, driven.ErrPostNotFound)
	}
	return nil
}

// Delete removes a post by id. Deleting a missing post is not an error.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM scheduled_posts WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete scheduled post %s: %w", id, err)
	}
	return nil
}

// GetByID retrieves a post by id. Returns nil, nil if it does not exist.
func (r *PostRepo) GetByID(ctx context.Context, id string) (*model.ScheduledPost, error) {
	const query = `SELECT ` + postColumns + ` FROM scheduled_posts WHERE id = ?`

	post, err := scanPost(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled post %s: %w", id, err)
	}
	return post, nil
}

// ListAll returns every post ordered by scheduled time.
func (r *PostRepo) ListAll(ctx context.Context) ([]model.ScheduledPost, error) {
	const query = `SELECT ` + postColumns + ` FROM scheduled_posts ORDER BY scheduled_at, created_at`
	return r.list(ctx, query)
}

// ListBetween returns posts scheduled in [from, to) ordered by scheduled time.
func (r *PostRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.ScheduledPost, error) {
	const query = `SELECT ` + postColumns + ` FROM scheduled_posts
		WHERE scheduled_at >= ? AND scheduled_at < ?
		ORDER BY scheduled_at, created_at`
	return r.list(ctx, query, formatTime(from), formatTime(to))
}

func (r *PostRepo) list(ctx context.Context, query string, args ...any) ([]model.ScheduledPost, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduled posts: %w", err)
	}
	defer rows.Close()

	posts := []model.ScheduledPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled posts: %w", err)
	}

	return posts, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*model.ScheduledPost, error) {
	var post model.ScheduledPost
	var platforms, mediaURLs, status string
	var scheduledAt, createdAt, updatedAt string

	err := s.Scan(&post.ID, &post.Title, &post.Content, &platforms, &mediaURLs, &status,
		&scheduledAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	post.Status = model.PostStatus(status)

	if err := json.Unmarshal([]byte(platforms), &post.Platforms); err != nil {
		return nil, fmt.Errorf("unmarshal platforms: %w", err)
	}
	if err := json.Unmarshal([]byte(mediaURLs), &post.MediaURLs); err != nil {
		return nil, fmt.Errorf("unmarshal media urls: %w", err)
	}

	if post.ScheduledAt, err = parseTime(scheduledAt); err != nil {
		return nil, fmt.Errorf("parse scheduled_at: %w", err)
	}
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if post.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &post, nil
}

func marshalPostLists(post model.ScheduledPost) (platforms, mediaURLs string, err error) {
	p := post.Platforms
	if p == nil {
		p = []model.Platform{}
	}
	m := post.MediaURLs
	if m == nil {
		m = []string{}
	}

	pj, err := json.Marshal(p)
	if err != nil {
		return "", "", fmt.Errorf("marshal platforms: %w", err)
	}
	mj, err := json.Marshal(m)
	if err != nil {
		return "", "", fmt.Errorf("marshal media urls: %w", err)
	}
	return string(pj), string(mj), nil
}
