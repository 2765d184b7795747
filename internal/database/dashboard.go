package database

import (
	"context"
	"fmt"

	"github.com/streamtube/backend/pkg/models"
)

// GetVideoStats returns total video count and summed views for a
// channel, published or not. The dashboard is owner-only so nothing
// here is filtered by visibility.
func (r *Repository) GetVideoStats(ctx context.Context, ownerID string) (totalVideos, totalViews int64, err error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(views), 0)
		FROM videos WHERE owner_id = $1
	`
	if err := r.db.Pool.QueryRow(ctx, query, ownerID).Scan(&totalVideos, &totalViews); err != nil {
		return 0, 0, fmt.Errorf("failed to get video stats: %w", err)
	}
	return totalVideos, totalViews, nil
}

// CountLikesOnOwnedVideos counts likes received across all of a
// channel's videos
func (r *Repository) CountLikesOnOwnedVideos(ctx context.Context, ownerID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		WHERE v.owner_id = $1
	`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes on videos: %w", err)
	}
	return count, nil
}

// GetMonthlyVideoCounts buckets a channel's uploads over the trailing
// six months by calendar month, oldest first. Months with no uploads
// produce no row.
func (r *Repository) GetMonthlyVideoCounts(ctx context.Context, ownerID string) ([]*models.MonthlyVideoCount, error) {
	query := `
		SELECT EXTRACT(YEAR FROM created_at)::int,
		       EXTRACT(MONTH FROM created_at)::int,
		       COUNT(*)
		FROM videos
		WHERE owner_id = $1 AND created_at >= now() - INTERVAL '6 months'
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly video counts: %w", err)
	}
	defer rows.Close()

	counts := []*models.MonthlyVideoCount{}
	for rows.Next() {
		var c models.MonthlyVideoCount
		if err := rows.Scan(&c.Year, &c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly count: %w", err)
		}
		counts = append(counts, &c)
	}

	return counts, nil
}

// GetTopVideos returns a channel's most viewed videos
func (r *Repository) GetTopVideos(ctx context.Context, ownerID string, limit int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.owner_id = $1
		ORDER BY v.views DESC, v.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top videos: %w", err)
	}
	defer rows.Close()

	videos := []*models.Video{}
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	return videos, nil
}
