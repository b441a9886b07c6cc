package models

import "time"

type Item struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Available   bool      `json:"available" yaml:"available"`
	OwnerID     int64     `json:"owner_id" yaml:"owner_id"`
	RequestID   *int64    `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// ItemPatch is a partial item update. Nil fields keep the stored value.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemWithBookings is the owner-facing item card: the item itself, its
// temporally nearest approved bookings and all comments. LastBooking and
// NextBooking stay nil for everyone except the owner.
type ItemWithBookings struct {
	Item
	LastBooking *SimpleBooking `json:"last_booking,omitempty"`
	NextBooking *SimpleBooking `json:"next_booking,omitempty"`
	Comments    []Comment      `json:"comments"`
}
