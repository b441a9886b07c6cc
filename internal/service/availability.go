package service

import (
	"time"

	"shareit/internal/models"
)

// LastBooking выбирает из подтвержденных бронирований то, что с наибольшим
// началом не позже now. При равных началах берется меньший id.
func LastBooking(bookings []models.Booking, now time.Time) *models.SimpleBooking {
	var last *models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status != models.StatusApproved || b.Start.After(now) {
			continue
		}
		if last == nil || b.Start.After(last.Start) || (b.Start.Equal(last.Start) && b.ID < last.ID) {
			last = b
		}
	}
	return last.ToSimple()
}

// NextBooking выбирает подтвержденное бронирование с наименьшим началом
// строго после now. При равных началах берется меньший id.
func NextBooking(bookings []models.Booking, now time.Time) *models.SimpleBooking {
	var next *models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status != models.StatusApproved || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) || (b.Start.Equal(next.Start) && b.ID < next.ID) {
			next = b
		}
	}
	return next.ToSimple()
}
