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

// CreateComment creates a comment on a video
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO comments (id, content, video_id, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		comment.ID, comment.Content, comment.VideoID, comment.OwnerID,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

const commentWithOwnerColumns = `
	c.id, c.content, c.video_id, c.owner_id, c.created_at, c.updated_at,
	u.id, u.username, u.full_name, u.avatar_url`

func scanCommentWithOwner(row pgx.Row, withLikes bool) (*models.Comment, error) {
	var comment models.Comment
	var owner models.UserSummary

	dest := []interface{}{
		&comment.ID, &comment.Content, &comment.VideoID, &comment.OwnerID,
		&comment.CreatedAt, &comment.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &owner.AvatarURL,
	}
	if withLikes {
		dest = append(dest, &comment.LikeCount)
	}

	if err := row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("Comment not found")
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	comment.Owner = &owner
	return &comment, nil
}

// GetCommentByID retrieves a comment with its owner projection
func (r *Repository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT ` + commentWithOwnerColumns + `
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.id = $1
	`
	return scanCommentWithOwner(r.db.Pool.QueryRow(ctx, query, id), false)
}

// ListVideoComments lists a video's comments newest first, each carrying
// its owner projection and like count. A comment nobody liked reports 0.
func (r *Repository) ListVideoComments(ctx context.Context, videoID string, p pagination.Params) ([]*models.Comment, int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT ` + commentWithOwnerColumns + `,
		       (SELECT COUNT(*) FROM likes l WHERE l.comment_id = c.id) AS like_count
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanCommentWithOwner(rows, true)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, comment)
	}

	return comments, total, nil
}

// UpdateComment replaces a comment's content and returns the updated record
func (r *Repository) UpdateComment(ctx context.Context, id, content string) (*models.Comment, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := r.db.Pool.QueryRow(ctx, query, id, content).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return nil, apperror.NotFound("Comment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return r.GetCommentByID(ctx, id)
}

// DeleteComment removes a comment row
func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Comment not found")
	}
	return nil
}
