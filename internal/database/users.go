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

// CreateUser creates a new user record
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, cover_image_url, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.AvatarURL, user.CoverImageURL, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return apperror.Conflict("Username or email is already taken")
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url,
	password_hash, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.AvatarURL, &user.CoverImageURL, &user.PasswordHash,
		&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.Pool.QueryRow(ctx, query, id))
}

// GetUserByLogin retrieves a user by username or email
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(r.db.Pool.QueryRow(ctx, query, login))
}

// UpdateRefreshToken stores the current refresh token for a user. An empty
// value clears it (logout).
func (r *Repository) UpdateRefreshToken(ctx context.Context, userID, token string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateAccountDetails updates a user's full name and email
func (r *Repository) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, userID, fullName, email))
	if isUniqueViolation(err) {
		return nil, apperror.Conflict("Email is already taken")
	}
	return user, err
}

// UpdateUserImage updates either the avatar or the cover image reference
func (r *Repository) UpdateUserImage(ctx context.Context, userID, column, url string) (*models.User, error) {
	var query string
	switch column {
	case "avatar_url":
		query = `UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	case "cover_image_url":
		query = `UPDATE users SET cover_image_url = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	default:
		return nil, fmt.Errorf("unknown image column %q", column)
	}

	return scanUser(r.db.Pool.QueryRow(ctx, query, userID, url))
}

// GetChannelProfile retrieves a user's public channel view, with
// subscription counts and whether viewerID is subscribed. viewerID may be
// empty for anonymous requests.
func (r *Repository) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	// NULLIF keeps an empty viewer id from failing the uuid cast
	var profile models.ChannelProfile
	err := r.db.Pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.full_name, u.avatar_url, u.cover_image_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to,
		       EXISTS (
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_id = u.id AND s.subscriber_id = NULLIF($2, '')::uuid
		       ) AS is_subscribed
		FROM users u
		WHERE u.username = $1
	`, username, viewerID).Scan(
		&profile.ID, &profile.Username, &profile.FullName, &profile.AvatarURL,
		&profile.CoverImageURL, &profile.SubscriberCount, &profile.SubscribedTo,
		&profile.IsSubscribed,
	)

	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Channel not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return &profile, nil
}

// AddWatchHistory records that a user watched a video. Set semantics: a
// repeat view is a no-op, handled by the unique pair constraint.
func (r *Repository) AddWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`, userID, videoID)
	if err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}
	return nil
}

// GetWatchHistory retrieves a user's watch history, most recent first,
// joined with the watched videos and their owners. Videos deleted since
// (or unpublished by someone else) drop out of the join.
func (r *Repository) GetWatchHistory(ctx context.Context, userID string, p pagination.Params) ([]*models.WatchHistoryEntry, int, error) {
	baseFrom := `
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id AND (v.is_published OR v.owner_id = $1)
		JOIN users u ON u.id = v.owner_id
		WHERE wh.user_id = $1
	`

	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) `+baseFrom, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count watch history: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT wh.watched_at,
		       v.id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.owner_id, v.created_at, v.updated_at,
		       u.id, u.username, u.full_name, u.avatar_url
		`+baseFrom+`
		ORDER BY wh.watched_at DESC
		LIMIT $2 OFFSET $3
	`, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list watch history: %w", err)
	}
	defer rows.Close()

	var entries []*models.WatchHistoryEntry
	for rows.Next() {
		var entry models.WatchHistoryEntry
		var video models.Video
		var owner models.UserSummary
		err := rows.Scan(
			&entry.WatchedAt,
			&video.ID, &video.Title, &video.Description, &video.VideoURL, &video.ThumbnailURL,
			&video.Duration, &video.Views, &video.IsPublished, &video.OwnerID,
			&video.CreatedAt, &video.UpdatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &owner.AvatarURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		video.Owner = &owner
		entry.Video = &video
		entries = append(entries, &entry)
	}

	return entries, total, nil
}

// RemoveVideoFromWatchHistories prunes a deleted video from every user's
// watch history. Best-effort cascade step.
func (r *Repository) RemoveVideoFromWatchHistories(ctx context.Context, videoID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM watch_history WHERE video_id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("failed to prune watch history: %w", err)
	}
	return nil
}
