package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, text, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, comment.ItemID, comment.AuthorID, comment.Text, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: comment on item %d by user %d", ErrAlreadyExists, comment.ItemID, comment.AuthorID)
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

// GetItemComments возвращает комментарии вещи от старых к новым.
func (db *DB) GetItemComments(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT c.id, c.item_id, c.author_id, u.name, c.text, c.created_at
              FROM comments c JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ? ORDER BY c.created_at ASC, c.id ASC`
	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (db *DB) CommentExists(ctx context.Context, itemID, authorID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM comments WHERE item_id = ? AND author_id = ?)`
	if err := db.QueryRowContext(ctx, query, itemID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check comment existence: %w", err)
	}
	return exists, nil
}
