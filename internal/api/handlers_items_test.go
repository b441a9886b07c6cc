package api

import (
	"net/http"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemRequiresSharerHeader(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/items", 0, map[string]any{
		"name":        "Дрель",
		"description": "ударная",
		"available":   true,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateItemRequiresAvailable(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.createUser(t, "Alice", "alice@example.com")

	rec := ts.do(t, http.MethodPost, "/items", owner.ID, map[string]any{
		"name":        "Дрель",
		"description": "ударная",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "available is required", errorBody(t, rec))
}

func TestCreateItemUnknownOwner(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/items", 999, map[string]any{
		"name":        "Дрель",
		"description": "ударная",
		"available":   true,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItemByNonOwnerHidden(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.createUser(t, "Alice", "alice@example.com")
	other := ts.createUser(t, "Bob", "bob@example.com")
	item := ts.createItem(t, owner.ID, "Дрель", true)

	rec := ts.do(t, http.MethodPatch, "/items/1", other.ID, map[string]any{"available": false}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	// Чужая вещь неотличима от несуществующей.
	assert.Equal(t, "not found", errorBody(t, rec))

	var updated models.Item
	rec = ts.do(t, http.MethodPatch, "/items/1", owner.ID, map[string]any{"available": false}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, item.ID, updated.ID)
	assert.False(t, updated.Available)
}

func TestGetItemCardVisibility(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.createUser(t, "Alice", "alice@example.com")
	booker := ts.createUser(t, "Bob", "bob@example.com")
	ts.createItem(t, owner.ID, "Дрель", true)

	now := testClock.Now()
	booking := ts.createBooking(t, booker.ID, 1, now.Add(24*time.Hour), now.Add(48*time.Hour))

	var decided models.Booking
	rec := ts.do(t, http.MethodPatch, "/bookings/1?approved=true", owner.ID, nil, &decided)
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.ItemWithBookings
	rec = ts.do(t, http.MethodGet, "/items/1", owner.ID, nil, &view)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, booking.ID, view.NextBooking.ID)

	// Не-владелец не видит бронирования на карточке.
	rec = ts.do(t, http.MethodGet, "/items/1", booker.ID, nil, &view)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, view.LastBooking)
	assert.Nil(t, view.NextBooking)
}

func TestGetUserItemsEmptyArray(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.createUser(t, "Alice", "alice@example.com")

	rec := ts.do(t, http.MethodGet, "/items", owner.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchItems(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.createUser(t, "Alice", "alice@example.com")
	ts.createItem(t, owner.ID, "Дрель", true)
	ts.createItem(t, owner.ID, "Палатка", true)

	var items []models.Item
	rec := ts.do(t, http.MethodGet, "/items/search?text=дрель", owner.ID, nil, &items)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, items, 1)
	assert.Equal(t, "Дрель", items[0].Name)

	// Пустой текст дает пустой массив, а не null.
	rec = ts.do(t, http.MethodGet, "/items/search?text=", owner.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateCommentFlow(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.createUser(t, "Alice", "alice@example.com")
	booker := ts.createUser(t, "Bob", "bob@example.com")
	ts.createItem(t, owner.ID, "Дрель", true)

	// Без завершенной аренды комментарий отклоняется.
	rec := ts.do(t, http.MethodPost, "/items/1/comment", booker.ID, map[string]string{"text": "Отлично"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Завершенная подтвержденная аренда открывает право на комментарий.
	now := testClock.Now()
	createTestBookingRow(t, ts, 1, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)

	var comment models.Comment
	rec = ts.do(t, http.MethodPost, "/items/1/comment", booker.ID, map[string]string{"text": "Отлично"}, &comment)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Отлично", comment.Text)
	assert.Equal(t, "Bob", comment.AuthorName)
}
