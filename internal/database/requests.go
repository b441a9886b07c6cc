package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requester_id, created_at) VALUES (?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, request.Description, request.RequesterID, now)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.CreatedAt = now
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var r models.ItemRequest
	query := `SELECT id, description, requester_id, created_at FROM requests WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Description, &r.RequesterID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &r, nil
}

// GetUserRequests возвращает запросы пользователя от новых к старым.
func (db *DB) GetUserRequests(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at FROM requests
              WHERE requester_id = ? ORDER BY created_at DESC, id DESC`
	return db.queryRequests(ctx, query, requesterID)
}

// GetOtherRequests возвращает чужие запросы постранично от новых к старым.
func (db *DB) GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at FROM requests
              WHERE requester_id != ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, userID, size, from)
}

func (db *DB) RequestExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM requests WHERE id = ?)`
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check request existence: %w", err)
	}
	return exists, nil
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ItemRequest
	for rows.Next() {
		var r models.ItemRequest
		if err := rows.Scan(&r.ID, &r.Description, &r.RequesterID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
