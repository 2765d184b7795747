package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

// CreateTweet creates a channel post
func (r *Repository) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	if tweet.ID == "" {
		tweet.ID = uuid.New().String()
	}

	query := `
		INSERT INTO tweets (id, content, owner_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		tweet.ID, tweet.Content, tweet.OwnerID,
	).Scan(&tweet.CreatedAt, &tweet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

const tweetWithOwnerColumns = `
	t.id, t.content, t.owner_id, t.created_at, t.updated_at,
	u.id, u.username, u.full_name, u.avatar_url`

func scanTweetWithOwner(row pgx.Row, withLikes bool) (*models.Tweet, error) {
	var tweet models.Tweet
	var owner models.UserSummary

	dest := []interface{}{
		&tweet.ID, &tweet.Content, &tweet.OwnerID,
		&tweet.CreatedAt, &tweet.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &owner.AvatarURL,
	}
	if withLikes {
		dest = append(dest, &tweet.LikeCount)
	}

	if err := row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("Tweet not found")
		}
		return nil, fmt.Errorf("failed to scan tweet: %w", err)
	}

	tweet.Owner = &owner
	return &tweet, nil
}

// GetTweetByID retrieves a tweet with its owner projection
func (r *Repository) GetTweetByID(ctx context.Context, id string) (*models.Tweet, error) {
	query := `
		SELECT ` + tweetWithOwnerColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = $1
	`
	return scanTweetWithOwner(r.db.Pool.QueryRow(ctx, query, id), false)
}

// ListUserTweets lists a user's tweets newest first with like counts
func (r *Repository) ListUserTweets(ctx context.Context, ownerID string, p pagination.Params) ([]*models.Tweet, int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tweets WHERE owner_id = $1`, ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tweets: %w", err)
	}

	query := `
		SELECT ` + tweetWithOwnerColumns + `,
		       (SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id) AS like_count
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	tweets := []*models.Tweet{}
	for rows.Next() {
		tweet, err := scanTweetWithOwner(rows, true)
		if err != nil {
			return nil, 0, err
		}
		tweets = append(tweets, tweet)
	}

	return tweets, total, nil
}

// UpdateTweet replaces a tweet's content and returns the updated record
func (r *Repository) UpdateTweet(ctx context.Context, id, content string) (*models.Tweet, error) {
	query := `
		UPDATE tweets SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := r.db.Pool.QueryRow(ctx, query, id, content).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Tweet not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}

	return r.GetTweetByID(ctx, id)
}

// DeleteTweet removes a tweet row
func (r *Repository) DeleteTweet(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Tweet not found")
	}
	return nil
}
