package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, end, models.StatusWaiting)
	require.NotZero(t, booking.ID)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
	assert.Equal(t, item.ID, got.ItemID)
	assert.Equal(t, "Дрель", got.ItemName)
	assert.Equal(t, owner.ID, got.ItemOwnerID)
	assert.Equal(t, booker.ID, got.BookerID)
	assert.Equal(t, "Bob", got.BookerName)
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(end))
}

func TestGetBookingNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetBooking(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestDecideBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	start := time.Now().UTC().Add(24 * time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	require.NoError(t, db.DecideBooking(ctx, booking.ID, models.StatusApproved))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	// Повторное решение не проходит: статус уже не WAITING.
	err = db.DecideBooking(ctx, booking.ID, models.StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	got, err = db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestDecideBookingNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := db.DecideBooking(context.Background(), 404, models.StatusApproved)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBookingsByBookerStates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Палатка", true)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := createTestBooking(t, db, item.ID, booker.ID,
		now.Add(-72*time.Hour), now.Add(-48*time.Hour), models.StatusApproved)
	current := createTestBooking(t, db, item.ID, booker.ID,
		now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	future := createTestBooking(t, db, item.ID, booker.ID,
		now.Add(48*time.Hour), now.Add(72*time.Hour), models.StatusWaiting)
	rejected := createTestBooking(t, db, item.ID, booker.ID,
		now.Add(96*time.Hour), now.Add(120*time.Hour), models.StatusRejected)

	cases := []struct {
		state models.SearchingState
		ids   []int64
	}{
		{models.SearchAll, []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{models.SearchCurrent, []int64{current.ID}},
		{models.SearchPast, []int64{past.ID}},
		{models.SearchFuture, []int64{rejected.ID, future.ID}},
		{models.SearchWaiting, []int64{future.ID}},
		{models.SearchRejected, []int64{rejected.ID}},
	}
	for _, tc := range cases {
		got, err := db.GetBookingsByBooker(ctx, booker.ID, tc.state, now, 0, 10)
		require.NoError(t, err, "state %s", tc.state)
		ids := make([]int64, 0, len(got))
		for _, b := range got {
			ids = append(ids, b.ID)
		}
		assert.Equal(t, tc.ids, ids, "state %s", tc.state)
	}
}

func TestGetBookingsByBookerPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 5; i++ {
		b := createTestBooking(t, db, item.ID, booker.ID,
			base.Add(time.Duration(i)*24*time.Hour),
			base.Add(time.Duration(i)*24*time.Hour+time.Hour),
			models.StatusWaiting)
		ids = append(ids, b.ID)
	}

	got, err := db.GetBookingsByBooker(ctx, booker.ID, models.SearchAll, base, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Сортировка от новых к старым, пропущен самый новый.
	assert.Equal(t, ids[3], got[0].ID)
	assert.Equal(t, ids[2], got[1].ID)
}

func TestGetBookingsByOwner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	other := createTestUser(t, db, "Carol", "carol@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	mine := createTestItem(t, db, owner.ID, "Дрель", true)
	foreign := createTestItem(t, db, other.ID, "Палатка", true)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	wanted := createTestBooking(t, db, mine.ID, booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)
	createTestBooking(t, db, foreign.ID, booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)

	got, err := db.GetBookingsByOwner(ctx, owner.ID, models.SearchAll, now, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, wanted.ID, got[0].ID)
}

func TestGetBookingsByOwnerRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	rangeStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	// Заканчивается до начала периода.
	createTestBooking(t, db, item.ID, booker.ID,
		rangeStart.Add(-48*time.Hour), rangeStart.Add(-24*time.Hour), models.StatusApproved)
	// Начинается после конца периода.
	createTestBooking(t, db, item.ID, booker.ID,
		rangeEnd.Add(24*time.Hour), rangeEnd.Add(48*time.Hour), models.StatusApproved)
	// Пересекает начало периода.
	overlapping := createTestBooking(t, db, item.ID, booker.ID,
		rangeStart.Add(-12*time.Hour), rangeStart.Add(12*time.Hour), models.StatusApproved)
	// Целиком внутри периода.
	inside := createTestBooking(t, db, item.ID, booker.ID,
		rangeStart.Add(48*time.Hour), rangeStart.Add(72*time.Hour), models.StatusWaiting)

	got, err := db.GetBookingsByOwnerRange(ctx, owner.ID, rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, overlapping.ID, got[0].ID)
	assert.Equal(t, inside.ID, got[1].ID)
}

func TestGetApprovedBookingsByItem(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	second := createTestBooking(t, db, item.ID, booker.ID,
		base.Add(48*time.Hour), base.Add(72*time.Hour), models.StatusApproved)
	first := createTestBooking(t, db, item.ID, booker.ID,
		base, base.Add(24*time.Hour), models.StatusApproved)
	createTestBooking(t, db, item.ID, booker.ID,
		base.Add(96*time.Hour), base.Add(120*time.Hour), models.StatusWaiting)

	got, err := db.GetApprovedBookingsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestExistsCompletedBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Alice", "alice@example.com")
	booker := createTestUser(t, db, "Bob", "bob@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	exists, err := db.ExistsCompletedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, exists)

	// Подтвержденное, но еще не завершенное.
	createTestBooking(t, db, item.ID, booker.ID,
		now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	exists, err = db.ExistsCompletedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, exists)

	// Завершенное, но отклоненное.
	createTestBooking(t, db, item.ID, booker.ID,
		now.Add(-72*time.Hour), now.Add(-48*time.Hour), models.StatusRejected)
	exists, err = db.ExistsCompletedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, exists)

	createTestBooking(t, db, item.ID, booker.ID,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	exists, err = db.ExistsCompletedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.True(t, exists)
}
