package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"uniconnect/internal/app/db"
)

const postQuery = `
	SELECT p.id, p.author_id, u.name, u.avatar_url, p.body, p.image_url, p.created_at,
	       COALESCE(ARRAY_AGG(pl.user_id ORDER BY pl.liked_at) FILTER (WHERE pl.user_id IS NOT NULL), '{}')
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_likes pl ON pl.post_id = p.id`

const postGroupBy = ` GROUP BY p.id, u.name, u.avatar_url`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorAvatarURL,
		&p.Body, &p.ImageURL, &p.CreatedAt, &p.Likes,
	)
	return p, err
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// CreatePost inserts a feed entry and returns it with the author resolved.
func (s *Store) CreatePost(ctx context.Context, authorID uuid.UUID, body, imageURL string) (Post, error) {
	var postID uuid.UUID

	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, body, image_url)
		VALUES ($1, $2, $3)
		RETURNING id`,
		authorID, body, imageURL,
	).Scan(&postID)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	return s.GetPost(ctx, postID)
}

// GetPost fetches one post by id.
func (s *Store) GetPost(ctx context.Context, postID uuid.UUID) (Post, error) {
	row := s.pool.QueryRow(ctx, postQuery+` WHERE p.id = $1`+postGroupBy, postID)

	p, err := scanPost(row)
	if err != nil {
		if db.IsNotFound(err) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("get post: %w", err)
	}

	return p, nil
}

// ListFeed returns the global feed, newest first.
func (s *Store) ListFeed(ctx context.Context) ([]Post, error) {
	rows, err := s.pool.Query(ctx, postQuery+postGroupBy+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}

	return collectPosts(rows)
}

// ListUserPosts returns one author's posts, newest first.
func (s *Store) ListUserPosts(ctx context.Context, authorID uuid.UUID) ([]Post, error) {
	rows, err := s.pool.Query(ctx,
		postQuery+` WHERE p.author_id = $1`+postGroupBy+` ORDER BY p.created_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}

	return collectPosts(rows)
}

// ToggleLike flips the user's membership in the post's likes list and returns
// the resulting list. Toggling twice restores the original state.
func (s *Store) ToggleLike(ctx context.Context, postID, userID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("toggle like: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("toggle like: post check: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			postID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("toggle like: insert: %w", err)
		}
	}

	var likes []uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(ARRAY_AGG(user_id ORDER BY liked_at), '{}')
		FROM post_likes WHERE post_id = $1`,
		postID,
	).Scan(&likes)
	if err != nil {
		return nil, fmt.Errorf("toggle like: collect: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("toggle like: commit: %w", err)
	}

	return likes, nil
}

// DeletePost removes a post if and only if the requester authored it. The
// post's image URL is returned so the caller can delete the stored object.
func (s *Store) DeletePost(ctx context.Context, postID, requesterID uuid.UUID) (string, error) {
	var authorID uuid.UUID
	var imageURL string

	err := s.pool.QueryRow(ctx, `SELECT author_id, image_url FROM posts WHERE id = $1`, postID).
		Scan(&authorID, &imageURL)
	if err != nil {
		if db.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("delete post: fetch: %w", err)
	}

	if authorID != requesterID {
		return "", ErrNotAuthor
	}

	_, err = s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return "", fmt.Errorf("delete post: %w", err)
	}

	return imageURL, nil
}
