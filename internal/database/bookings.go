package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.item_id, i.name, i.owner_id, b.booker_id, u.name,
	              b.start_date, b.end_date, b.status, b.created_at, b.updated_at`

const bookingJoins = `FROM bookings b
	              JOIN items i ON i.id = b.item_id
	              JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + ` WHERE b.id = ?`
	booking, err := db.scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// DecideBooking переводит заявку из WAITING в итоговый статус. Условие по
// текущему статусу входит в сам UPDATE: два конкурирующих решения не могут
// пройти оба, даже при нескольких экземплярах сервиса.
func (db *DB) DecideBooking(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to decide booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		exists, err := db.bookingExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrAlreadyDecided
	}
	return nil
}

// GetBookingsByBooker возвращает бронирования автора с учетом фильтра,
// упорядоченные по началу от новых к старым.
func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.SearchingState, now time.Time, from, size int) ([]models.Booking, error) {
	where, args := stateCondition(state, now)
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE b.booker_id = ?` + where + `
              ORDER BY b.start_date DESC, b.id DESC LIMIT ? OFFSET ?`
	queryArgs := append([]any{bookerID}, args...)
	queryArgs = append(queryArgs, size, from)
	return db.queryBookings(ctx, query, queryArgs...)
}

// GetBookingsByOwner возвращает бронирования вещей владельца с учетом фильтра.
func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.SearchingState, now time.Time, from, size int) ([]models.Booking, error) {
	where, args := stateCondition(state, now)
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE i.owner_id = ?` + where + `
              ORDER BY b.start_date DESC, b.id DESC LIMIT ? OFFSET ?`
	queryArgs := append([]any{ownerID}, args...)
	queryArgs = append(queryArgs, size, from)
	return db.queryBookings(ctx, query, queryArgs...)
}

// GetBookingsByOwnerRange возвращает бронирования вещей владельца,
// пересекающиеся с отчетным периодом, по возрастанию начала.
func (db *DB) GetBookingsByOwnerRange(ctx context.Context, ownerID int64, start, end time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE i.owner_id = ? AND b.start_date < ? AND b.end_date > ?
              ORDER BY b.start_date ASC, b.id ASC`
	return db.queryBookings(ctx, query, ownerID, end.UTC(), start.UTC())
}

// GetApprovedBookingsByItem возвращает подтвержденные бронирования вещи
// по возрастанию начала.
func (db *DB) GetApprovedBookingsByItem(ctx context.Context, itemID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE b.item_id = ? AND b.status = ?
              ORDER BY b.start_date ASC, b.id ASC`
	return db.queryBookings(ctx, query, itemID, models.StatusApproved)
}

// ExistsCompletedBooking проверяет наличие завершенной аренды: подтвержденное
// бронирование пользователя на вещь с end в прошлом.
func (db *DB) ExistsCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(
                SELECT 1 FROM bookings
                WHERE item_id = ? AND booker_id = ? AND status = ? AND end_date < ?
              )`
	err := db.QueryRowContext(ctx, query, itemID, userID, models.StatusApproved, now.UTC()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completed booking: %w", err)
	}
	return exists, nil
}

func (db *DB) bookingExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check booking existence: %w", err)
	}
	return exists, nil
}

func stateCondition(state models.SearchingState, now time.Time) (string, []any) {
	ts := now.UTC()
	switch state {
	case models.SearchCurrent:
		return ` AND b.start_date <= ? AND b.end_date > ?`, []any{ts, ts}
	case models.SearchPast:
		return ` AND b.end_date <= ?`, []any{ts}
	case models.SearchFuture:
		return ` AND b.start_date > ?`, []any{ts}
	case models.SearchWaiting:
		return ` AND b.status = ?`, []any{models.StatusWaiting}
	case models.SearchRejected:
		return ` AND b.status = ?`, []any{models.StatusRejected}
	default: // ALL
		return ``, nil
	}
}

func (db *DB) scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := db.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
