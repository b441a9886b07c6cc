package service

import (
	"context"
	"os"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testClock = FixedClock{Instant: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}

func testLogger() *zerolog.Logger {
	logger := zerolog.New(os.Stdout)
	return &logger
}

func setupTestDB(t *testing.T) *database.DB {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *database.DB, name, email string) *models.User {
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *database.DB, ownerID int64, name string, available bool) *models.Item {
	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createTestBooking(t *testing.T, db *database.DB, itemID, bookerID int64, start, end time.Time, status string) *models.Booking {
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

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error {
	args := m.Called(ctx, taskType, booking)
	return args.Error(0)
}

type mockViewCache struct {
	mock.Mock
}

func (m *mockViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemWithBookings, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemWithBookings), args.Error(1)
}

func (m *mockViewCache) SetItemView(ctx context.Context, view *models.ItemWithBookings) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *mockViewCache) InvalidateItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *mockViewCache) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}
