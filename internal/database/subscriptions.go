package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

// ToggleSubscription flips a user's subscription to a channel. Same
// insert-first shape as ToggleLike. Returns true when the subscription
// now exists. Self-subscription is rejected at the handler layer before
// this runs; the table's CHECK constraint backstops it.
func (r *Repository) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	insert := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
		RETURNING id
	`

	var insertedID string
	err := r.db.Pool.QueryRow(ctx, insert, uuid.New().String(), subscriberID, channelID).Scan(&insertedID)
	if err == nil {
		return true, nil
	}
	if err != pgx.ErrNoRows {
		return false, fmt.Errorf("failed to toggle subscription: %w", err)
	}

	remove := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	if _, err := r.db.Pool.Exec(ctx, remove, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("failed to remove subscription: %w", err)
	}

	return false, nil
}

// CountSubscribers counts a channel's subscribers
func (r *Repository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

// ListChannelSubscribers lists the users subscribed to a channel,
// newest subscription first.
func (r *Repository) ListChannelSubscribers(ctx context.Context, channelID string, p pagination.Params) ([]*models.UserSummary, int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, channelID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []*models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.AvatarURL); err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, &u)
	}

	return subscribers, total, nil
}

// ListSubscribedChannels lists the channels a user subscribes to,
// newest subscription first.
func (r *Repository) ListSubscribedChannels(ctx context.Context, subscriberID string, p pagination.Params) ([]*models.UserSummary, int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscribed channels: %w", err)
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, subscriberID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscribed channels: %w", err)
	}
	defer rows.Close()

	channels := []*models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.AvatarURL); err != nil {
			return nil, 0, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, &u)
	}

	return channels, total, nil
}
