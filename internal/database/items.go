package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, now, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrItemNotFound
	}
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	item, err := db.scanItem(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// GetUserItems возвращает вещи владельца постранично в порядке создания.
func (db *DB) GetUserItems(ctx context.Context, ownerID int64, from, size int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, ownerID, size, from)
}

// SearchItems ищет доступные вещи по подстроке в названии или описании.
// Пустая строка поиска дает пустой результат.
func (db *DB) SearchItems(ctx context.Context, text string, from, size int) ([]models.Item, error) {
	if text == "" {
		return nil, nil
	}
	pattern := "%" + text + "%"
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1 AND (name LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE)
              ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, pattern, pattern, size, from)
}

func (db *DB) ItemExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return exists, nil
}

// UserHasItems сообщает, владеет ли пользователь хотя бы одной вещью.
func (db *DB) UserHasItems(ctx context.Context, ownerID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM items WHERE owner_id = ?)`
	if err := db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check owner items: %w", err)
	}
	return exists, nil
}

func (db *DB) GetItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id = ? ORDER BY id`
	return db.queryItems(ctx, query, requestID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Available,
		&item.OwnerID, &item.RequestID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := db.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
