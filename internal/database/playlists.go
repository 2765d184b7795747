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

// CreatePlaylist creates an empty playlist
func (r *Repository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}

	query := `
		INSERT INTO playlists (id, name, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		playlist.ID, playlist.Name, playlist.Description, playlist.OwnerID,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	playlist.Videos = []*models.Video{}
	return nil
}

// GetPlaylistByID retrieves a playlist and its videos in insertion
// order. Videos the viewer cannot see are filtered out rather than
// surfaced as holes.
func (r *Repository) GetPlaylistByID(ctx context.Context, id, viewerID string) (*models.Playlist, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists WHERE id = $1
	`

	var playlist models.Playlist
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID, &playlist.Name, &playlist.Description,
		&playlist.OwnerID, &playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Playlist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	videosQuery := `
		SELECT ` + videoWithOwnerColumns + `
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE pv.playlist_id = $1
		  AND (v.is_published OR v.owner_id = NULLIF($2, '')::uuid)
		ORDER BY pv.position ASC
	`

	rows, err := r.db.Pool.Query(ctx, videosQuery, id, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	defer rows.Close()

	playlist.Videos = []*models.Video{}
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		playlist.Videos = append(playlist.Videos, video)
	}

	playlist.VideoCount = len(playlist.Videos)
	return &playlist, nil
}

// ListUserPlaylists lists a user's playlists newest first with video counts
func (r *Repository) ListUserPlaylists(ctx context.Context, ownerID string, p pagination.Params) ([]*models.Playlist, int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM playlists WHERE owner_id = $1`, ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count playlists: %w", err)
	}

	query := `
		SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id) AS video_count
		FROM playlists p
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []*models.Playlist{}
	for rows.Next() {
		var playlist models.Playlist
		err := rows.Scan(
			&playlist.ID, &playlist.Name, &playlist.Description,
			&playlist.OwnerID, &playlist.CreatedAt, &playlist.UpdatedAt,
			&playlist.VideoCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, &playlist)
	}

	return playlists, total, nil
}

// UpdatePlaylist applies a partial update to name and description
func (r *Repository) UpdatePlaylist(ctx context.Context, id string, update *models.PlaylistUpdate) error {
	query := `
		UPDATE playlists SET
			name = COALESCE($2::text, name),
			description = COALESCE($3::text, description),
			updated_at = now()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := r.db.Pool.QueryRow(ctx, query, id, update.Name, update.Description).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return apperror.NotFound("Playlist not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	return nil
}

// DeletePlaylist removes a playlist and its membership rows
func (r *Repository) DeletePlaylist(ctx context.Context, id string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete playlist videos: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Playlist not found")
	}
	return nil
}

// AddVideoToPlaylist appends a video at the end of a playlist. Adding a
// video that is already in the playlist is a conflict, not a silent
// no-op, so callers can tell the user.
func (r *Repository) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1
		FROM playlist_videos WHERE playlist_id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, playlistID, videoID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Video is already in the playlist")
		}
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}

	return nil
}

// RemoveVideoFromPlaylist removes a video from a playlist
func (r *Repository) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Video is not in the playlist")
	}
	return nil
}

// RemoveVideoFromAllPlaylists strips a deleted video out of every
// playlist. Part of the cleanup cascade.
func (r *Repository) RemoveVideoFromAllPlaylists(ctx context.Context, videoID string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM playlist_videos WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to remove video from playlists: %w", err)
	}
	return nil
}
