package database

import (
	"context"
	"os"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *models.User {
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createTestBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status string) *models.Booking {
	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   status,
	}
	require.NoError(t, db.CreateBooking(context.Background(), booking))
	return booking
}
