package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/streamtube/backend/internal/pagination"
	"github.com/streamtube/backend/pkg/models"
)

// likeTargetColumn maps a like target to its column. Callers pass
// validated targets only; an unknown target is a programming error.
func likeTargetColumn(target models.LikeTarget) (string, error) {
	switch target {
	case models.LikeTargetVideo:
		return "video_id", nil
	case models.LikeTargetComment:
		return "comment_id", nil
	case models.LikeTargetTweet:
		return "tweet_id", nil
	}
	return "", fmt.Errorf("unknown like target %q", target)
}

// ToggleLike flips a user's like on a target. The insert goes first so
// two concurrent toggles race on the unique index instead of on a
// read-then-write check. Returns true when the like now exists.
func (r *Repository) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	column, err := likeTargetColumn(target)
	if err != nil {
		return false, err
	}

	insert := fmt.Sprintf(`
		INSERT INTO likes (id, %s, liked_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, liked_by) WHERE %s IS NOT NULL DO NOTHING
		RETURNING id
	`, column, column, column)

	var insertedID string
	err = r.db.Pool.QueryRow(ctx, insert, uuid.New().String(), targetID, userID).Scan(&insertedID)
	if err == nil {
		return true, nil
	}
	if err != pgx.ErrNoRows {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}

	// Already liked, so this toggle removes it. A concurrent toggle may
	// have removed it first; that race is absorbed and both callers see
	// the like gone.
	remove := fmt.Sprintf(`DELETE FROM likes WHERE %s = $1 AND liked_by = $2`, column)
	if _, err := r.db.Pool.Exec(ctx, remove, targetID, userID); err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}

	return false, nil
}

// CountLikes counts likes on a single target
func (r *Repository) CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int64, error) {
	column, err := likeTargetColumn(target)
	if err != nil {
		return 0, err
	}

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM likes WHERE %s = $1`, column)
	if err := r.db.Pool.QueryRow(ctx, query, targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return count, nil
}

// ListLikedVideos lists the videos a user liked, most recently liked
// first. Unpublished videos stay hidden even when the user liked them
// before they were unpublished, unless the user owns them.
func (r *Repository) ListLikedVideos(ctx context.Context, userID string, p pagination.Params) ([]*models.LikedVideo, int, error) {
	predicate := `
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.liked_by = $1 AND l.video_id IS NOT NULL
		  AND (v.is_published OR v.owner_id = $1)
	`

	var total int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) `+predicate, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count liked videos: %w", err)
	}

	query := `
		SELECT ` + videoWithOwnerColumns + `, l.created_at AS liked_at ` + predicate + `
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list liked videos: %w", err)
	}
	defer rows.Close()

	liked := []*models.LikedVideo{}
	for rows.Next() {
		var entry models.LikedVideo
		var video models.Video
		var owner models.UserSummary

		err := rows.Scan(
			&video.ID, &video.Title, &video.Description,
			&video.VideoURL, &video.VideoStorageID,
			&video.ThumbnailURL, &video.ThumbnailStorageID,
			&video.Duration, &video.Views, &video.IsPublished,
			&video.OwnerID, &video.CreatedAt, &video.UpdatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &owner.AvatarURL,
			&entry.LikedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan liked video: %w", err)
		}

		video.Owner = &owner
		entry.Video = &video
		liked = append(liked, &entry)
	}

	return liked, total, nil
}

// DeleteLikesOnVideo removes all likes pointing at a video. Part of the
// cleanup cascade after a video delete.
func (r *Repository) DeleteLikesOnVideo(ctx context.Context, videoID string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM likes WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to delete video likes: %w", err)
	}
	return nil
}

// DeleteLikesOnComment removes all likes pointing at a comment
func (r *Repository) DeleteLikesOnComment(ctx context.Context, commentID string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM likes WHERE comment_id = $1`, commentID); err != nil {
		return fmt.Errorf("failed to delete comment likes: %w", err)
	}
	return nil
}

// DeleteLikesOnTweet removes all likes pointing at a tweet
func (r *Repository) DeleteLikesOnTweet(ctx context.Context, tweetID string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM likes WHERE tweet_id = $1`, tweetID); err != nil {
		return fmt.Errorf("failed to delete tweet likes: %w", err)
	}
	return nil
}

// DeleteCommentsOnVideo removes a video's comments and their likes.
// Likes go first so a crash between the two leaves no likes pointing
// at comments that still exist.
func (r *Repository) DeleteCommentsOnVideo(ctx context.Context, videoID string) error {
	query := `
		DELETE FROM likes WHERE comment_id IN
			(SELECT id FROM comments WHERE video_id = $1)
	`
	if _, err := r.db.Pool.Exec(ctx, query, videoID); err != nil {
		return fmt.Errorf("failed to delete comment likes for video: %w", err)
	}
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to delete video comments: %w", err)
	}
	return nil
}
