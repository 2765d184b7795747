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

// CreateVideo creates a new video record
func (r *Repository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	query := `
		INSERT INTO videos (id, title, description, video_url, video_storage_id,
		                    thumbnail_url, thumbnail_storage_id, duration, is_published, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.ID, video.Title, video.Description, video.VideoURL, video.VideoStorageID,
		video.ThumbnailURL, video.ThumbnailStorageID, video.Duration, video.IsPublished,
		video.OwnerID,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

const videoWithOwnerColumns = `
	v.id, v.title, v.description, v.video_url, v.video_storage_id,
	v.thumbnail_url, v.thumbnail_storage_id, v.duration, v.views,
	v.is_published, v.owner_id, v.created_at, v.updated_at,
	u.id, u.username, u.full_name, u.avatar_url`

func scanVideoWithOwner(row pgx.Row) (*models.Video, error) {
	var video models.Video
	var owner models.UserSummary
	err := row.Scan(
		&video.ID, &video.Title, &video.Description, &video.VideoURL, &video.VideoStorageID,
		&video.ThumbnailURL, &video.ThumbnailStorageID, &video.Duration, &video.Views,
		&video.IsPublished, &video.OwnerID, &video.CreatedAt, &video.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &owner.AvatarURL,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	video.Owner = &owner
	return &video, nil
}

// GetVideoByID retrieves a video with its owner projection. Visibility is
// the caller's concern; this returns unpublished videos too.
func (r *Repository) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`
	return scanVideoWithOwner(r.db.Pool.QueryRow(ctx, query, id))
}

// ListVideosOptions selects and orders a page of videos.
type ListVideosOptions struct {
	Query    string // free-text search against title/description
	OwnerID  string // restrict to one channel, empty for all
	ViewerID string // requesting user, empty when anonymous
	Sort     pagination.Sort
	Page     pagination.Params
}

// Filter before join before pagination: the visibility predicate runs
// against videos alone, the owner projection join only touches the
// filtered set, and the count pass shares the identical predicate.
const videoListPredicate = `
	(v.is_published OR v.owner_id = NULLIF($1, '')::uuid)
	AND ($2 = '' OR v.owner_id = $2::uuid)
	AND ($3 = '' OR v.title ILIKE '%' || $3 || '%' OR v.description ILIKE '%' || $3 || '%')`

// ListVideos lists videos visible to the viewer, optionally filtered by
// owner and search query, sorted and paginated. Returns the page and the
// total match count.
func (r *Repository) ListVideos(ctx context.Context, opts ListVideosOptions) ([]*models.Video, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM videos v WHERE ` + videoListPredicate
	if err := r.db.Pool.QueryRow(ctx, countQuery,
		opts.ViewerID, opts.OwnerID, opts.Query,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE ` + videoListPredicate + `
		ORDER BY v.` + opts.Sort.OrderClause() + `
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Pool.Query(ctx, query,
		opts.ViewerID, opts.OwnerID, opts.Query, opts.Page.Limit, opts.Page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []*models.Video{}
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, video)
	}

	return videos, total, nil
}

// UpdateVideo applies an owner-approved partial update and returns the
// updated record with its owner projection.
func (r *Repository) UpdateVideo(ctx context.Context, id string, update models.VideoUpdate) (*models.Video, error) {
	query := `
		UPDATE videos SET
			title = COALESCE($2::text, title),
			description = COALESCE($3::text, description),
			thumbnail_url = COALESCE($4::text, thumbnail_url),
			thumbnail_storage_id = COALESCE($5::text, thumbnail_storage_id),
			updated_at = now()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := r.db.Pool.QueryRow(ctx, query,
		id, update.Title, update.Description, update.ThumbnailURL, update.ThumbnailStorageID,
	).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	return r.GetVideoByID(ctx, id)
}

// TogglePublish flips a video's published flag and returns the new state.
func (r *Repository) TogglePublish(ctx context.Context, id string) (*models.Video, error) {
	query := `
		UPDATE videos SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle publish status: %w", err)
	}

	return r.GetVideoByID(ctx, id)
}

// IncrementViews bumps a video's view counter. Atomic at the store so
// concurrent viewers never lose updates.
func (r *Repository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// DeleteVideo removes the video row. Cascade cleanup of likes and watch
// history is separate and best-effort.
func (r *Repository) DeleteVideo(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Video not found")
	}
	return nil
}
