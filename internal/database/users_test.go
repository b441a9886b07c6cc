package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	require.NotZero(t, user.ID)

	got, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	createTestUser(t, db, "Alice", "alice@example.com")

	err := db.CreateUser(context.Background(), &models.User{Name: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	user.Name = "Alice Smith"
	user.Email = "smith@example.com"
	require.NoError(t, db.UpdateUser(ctx, user))

	got, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Equal(t, "smith@example.com", got.Email)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	bob.Email = "alice@example.com"
	err := db.UpdateUser(context.Background(), bob)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := db.UpdateUser(context.Background(), &models.User{ID: 999, Name: "Ghost", Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	require.NoError(t, db.DeleteUser(ctx, user.ID))

	_, err := db.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = db.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetAllUsers(t *testing.T) {
	db := setupTestDB(t)

	createTestUser(t, db, "Alice", "alice@example.com")
	createTestUser(t, db, "Bob", "bob@example.com")

	users, err := db.GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestUserExists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")

	exists, err := db.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}
