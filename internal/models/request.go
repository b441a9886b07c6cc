package models

import "time"

// ItemRequest is a wanted-item announcement; items may be created in answer
// to it and carry its id.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ItemRequestWithItems struct {
	ItemRequest
	Items []Item `json:"items"`
}
