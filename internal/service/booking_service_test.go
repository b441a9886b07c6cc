package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	svc    *BookingService
	db     *database.DB
	bus    *mockEventBus
	sync   *mockSyncWorker
	cache  *mockViewCache
	owner  *models.User
	booker *models.User
	item   *models.Item
}

func setupBookingService(t *testing.T) *bookingFixture {
	db := setupTestDB(t)
	bus := new(mockEventBus)
	sync := new(mockSyncWorker)
	cache := new(mockViewCache)

	f := &bookingFixture{
		svc:    NewBookingService(db, bus, sync, cache, testClock, testLogger()),
		db:     db,
		bus:    bus,
		sync:   sync,
		cache:  cache,
		owner:  createTestUser(t, db, "Alice", "alice@example.com"),
		booker: createTestUser(t, db, "Bob", "bob@example.com"),
	}
	f.item = createTestItem(t, db, f.owner.ID, "Дрель", true)
	return f
}

func (f *bookingFixture) expectSideEffects(eventType, taskType string) {
	f.bus.On("PublishJSON", eventType, mock.Anything).Return(nil)
	f.sync.On("EnqueueTask", mock.Anything, taskType, mock.Anything).Return(nil)
	f.cache.On("InvalidateItem", mock.Anything, f.item.ID).Return(nil)
}

func TestCreateBooking(t *testing.T) {
	f := setupBookingService(t)
	f.expectSideEffects(events.EventBookingCreated, worker.TaskUpsert)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)
	booking, err := f.svc.CreateBooking(ctx, f.booker.ID, f.item.ID, start, start.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, "Дрель", booking.ItemName)
	assert.Equal(t, "Bob", booking.BookerName)
	assert.Equal(t, f.owner.ID, booking.ItemOwnerID)

	f.bus.AssertExpectations(t)
	f.sync.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestCreateBookingInvalidTimeRange(t *testing.T) {
	f := setupBookingService(t)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)

	_, err := f.svc.CreateBooking(ctx, f.booker.ID, f.item.ID, start, start)
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)

	_, err = f.svc.CreateBooking(ctx, f.booker.ID, f.item.ID, start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)
}

func TestCreateBookingUnknownUser(t *testing.T) {
	f := setupBookingService(t)

	start := testClock.Now().Add(24 * time.Hour)
	_, err := f.svc.CreateBooking(context.Background(), 999, f.item.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestCreateBookingUnknownItem(t *testing.T) {
	f := setupBookingService(t)

	start := testClock.Now().Add(24 * time.Hour)
	_, err := f.svc.CreateBooking(context.Background(), f.booker.ID, 999, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrItemNotFound)
}

func TestCreateBookingOwnItem(t *testing.T) {
	f := setupBookingService(t)

	start := testClock.Now().Add(24 * time.Hour)
	_, err := f.svc.CreateBooking(context.Background(), f.owner.ID, f.item.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrAccessDenied)
}

func TestCreateBookingUnavailableItem(t *testing.T) {
	f := setupBookingService(t)
	hidden := createTestItem(t, f.db, f.owner.ID, "Палатка", false)

	start := testClock.Now().Add(24 * time.Hour)
	_, err := f.svc.CreateBooking(context.Background(), f.booker.ID, hidden.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrNotAvailable)
}

func TestSetBookingStatusApprove(t *testing.T) {
	f := setupBookingService(t)
	f.expectSideEffects(events.EventBookingApproved, worker.TaskUpdateStatus)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)
	booking := createTestBooking(t, f.db, f.item.ID, f.booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	decided, err := f.svc.SetBookingStatus(ctx, f.owner.ID, booking.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)

	f.bus.AssertExpectations(t)
	f.sync.AssertExpectations(t)
}

func TestSetBookingStatusReject(t *testing.T) {
	f := setupBookingService(t)
	f.expectSideEffects(events.EventBookingRejected, worker.TaskUpdateStatus)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)
	booking := createTestBooking(t, f.db, f.item.ID, f.booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	decided, err := f.svc.SetBookingStatus(ctx, f.owner.ID, booking.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, decided.Status)
}

func TestSetBookingStatusNotOwner(t *testing.T) {
	f := setupBookingService(t)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)
	booking := createTestBooking(t, f.db, f.item.ID, f.booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	// Ни автор бронирования, ни посторонний решать не могут.
	_, err := f.svc.SetBookingStatus(ctx, f.booker.ID, booking.ID, true)
	assert.ErrorIs(t, err, database.ErrAccessDenied)

	stranger := createTestUser(t, f.db, "Carol", "carol@example.com")
	_, err = f.svc.SetBookingStatus(ctx, stranger.ID, booking.ID, true)
	assert.ErrorIs(t, err, database.ErrAccessDenied)
}

func TestSetBookingStatusAlreadyDecided(t *testing.T) {
	f := setupBookingService(t)
	f.expectSideEffects(events.EventBookingApproved, worker.TaskUpdateStatus)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)
	booking := createTestBooking(t, f.db, f.item.ID, f.booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	_, err := f.svc.SetBookingStatus(ctx, f.owner.ID, booking.ID, true)
	require.NoError(t, err)

	// Решение терминально, второй вызов отклоняется независимо от направления.
	_, err = f.svc.SetBookingStatus(ctx, f.owner.ID, booking.ID, false)
	assert.ErrorIs(t, err, database.ErrAlreadyDecided)

	got, err := f.db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestGetBookingAuthorization(t *testing.T) {
	f := setupBookingService(t)
	ctx := context.Background()

	start := testClock.Now().Add(24 * time.Hour)
	booking := createTestBooking(t, f.db, f.item.ID, f.booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	got, err := f.svc.GetBooking(ctx, f.booker.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	got, err = f.svc.GetBooking(ctx, f.owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	stranger := createTestUser(t, f.db, "Carol", "carol@example.com")
	_, err = f.svc.GetBooking(ctx, stranger.ID, booking.ID)
	assert.ErrorIs(t, err, database.ErrAccessDenied)
}

func TestGetBookingsByBooker(t *testing.T) {
	f := setupBookingService(t)
	ctx := context.Background()

	now := testClock.Now()
	createTestBooking(t, f.db, f.item.ID, f.booker.ID,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	waiting := createTestBooking(t, f.db, f.item.ID, f.booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)

	bookings, err := f.svc.GetBookingsByBooker(ctx, f.booker.ID, models.SearchAll, 0, 10)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)

	bookings, err = f.svc.GetBookingsByBooker(ctx, f.booker.ID, models.SearchWaiting, 0, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, waiting.ID, bookings[0].ID)

	_, err = f.svc.GetBookingsByBooker(ctx, 999, models.SearchAll, 0, 10)
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestGetBookingsByOwner(t *testing.T) {
	f := setupBookingService(t)
	ctx := context.Background()

	now := testClock.Now()
	booking := createTestBooking(t, f.db, f.item.ID, f.booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)

	bookings, err := f.svc.GetBookingsByOwner(ctx, f.owner.ID, models.SearchAll, 0, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.ID, bookings[0].ID)

	// Пользователь без вещей получает not found вместо пустого списка.
	_, err = f.svc.GetBookingsByOwner(ctx, f.booker.ID, models.SearchAll, 0, 10)
	assert.ErrorIs(t, err, database.ErrItemNotFound)

	_, err = f.svc.GetBookingsByOwner(ctx, 999, models.SearchAll, 0, 10)
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestGetBookingsByOwnerRange(t *testing.T) {
	f := setupBookingService(t)
	ctx := context.Background()

	now := testClock.Now()
	inside := createTestBooking(t, f.db, f.item.ID, f.booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusApproved)
	createTestBooking(t, f.db, f.item.ID, f.booker.ID,
		now.Add(240*time.Hour), now.Add(264*time.Hour), models.StatusApproved)

	bookings, err := f.svc.GetBookingsByOwnerRange(ctx, f.owner.ID, now, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, inside.ID, bookings[0].ID)

	_, err = f.svc.GetBookingsByOwnerRange(ctx, 999, now, now.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}
