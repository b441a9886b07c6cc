package models

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"item_id"`
	ItemName    string    `json:"item_name"`
	ItemOwnerID int64     `json:"item_owner_id"`
	BookerID    int64     `json:"booker_id"`
	BookerName  string    `json:"booker_name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"` // WAITING, APPROVED, REJECTED
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SimpleBooking is the reduced projection used to tag an item with its
// nearest approved bookings.
type SimpleBooking struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
	BookerID int64     `json:"booker_id"`
}

func (b *Booking) ToSimple() *SimpleBooking {
	if b == nil {
		return nil
	}
	return &SimpleBooking{
		ID:       b.ID,
		Start:    b.Start,
		End:      b.End,
		Status:   b.Status,
		BookerID: b.BookerID,
	}
}
