package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the storage contract consumed by the services.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)

	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetUserItems(ctx context.Context, ownerID int64, from, size int) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]models.Item, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	UserHasItems(ctx context.Context, ownerID int64) (bool, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, id int64, status string) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.SearchingState, now time.Time, from, size int) ([]models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.SearchingState, now time.Time, from, size int) ([]models.Booking, error)
	GetBookingsByOwnerRange(ctx context.Context, ownerID int64, start, end time.Time) ([]models.Booking, error)
	GetApprovedBookingsByItem(ctx context.Context, itemID int64) ([]models.Booking, error)
	ExistsCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetItemComments(ctx context.Context, itemID int64) ([]models.Comment, error)
	CommentExists(ctx context.Context, itemID, authorID int64) (bool, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetUserRequests(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]models.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
}

// ViewCache keeps rendered item cards and per-user rate counters.
type ViewCache interface {
	GetItemView(ctx context.Context, itemID int64) (*models.ItemWithBookings, error)
	SetItemView(ctx context.Context, view *models.ItemWithBookings) error
	InvalidateItem(ctx context.Context, itemID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	SetBookingStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	GetBookingsByBooker(ctx context.Context, userID int64, state models.SearchingState, from, size int) ([]models.Booking, error)
	GetBookingsByOwner(ctx context.Context, userID int64, state models.SearchingState, from, size int) ([]models.Booking, error)
	GetBookingsByOwnerRange(ctx context.Context, ownerID int64, start, end time.Time) ([]models.Booking, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch *models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, userID, itemID int64) (*models.ItemWithBookings, error)
	GetUserItems(ctx context.Context, ownerID int64, from, size int) ([]models.ItemWithBookings, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]models.Item, error)
	CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	GetUserRequests(ctx context.Context, userID int64) ([]models.ItemRequestWithItems, error)
	GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]models.ItemRequestWithItems, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestWithItems, error)
}
