package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"
)

type createBookingRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), bookerID, body.ItemID, body.Start, body.End)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleSetBookingStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("approved"))
	var approved bool
	switch raw {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		writeError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	booking, err := s.bookings.SetBookingStatus(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.handleBookingList(w, r, s.bookings.GetBookingsByBooker)
}

func (s *Server) handleGetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.handleBookingList(w, r, s.bookings.GetBookingsByOwner)
}

func (s *Server) handleBookingList(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID int64, state models.SearchingState, from, size int) ([]models.Booking, error),
) {
	userID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	state, err := models.ParseSearchingState(r.URL.Query().Get("state"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pagination(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := list(r.Context(), userID, state, from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// handleExportBookings streams an xlsx report of the owner's bookings that
// overlap the requested period.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !start.Before(end) {
		s.respondError(w, r, fmt.Errorf("%w: start %s is not before end %s",
			database.ErrInvalidTimeRange, start.Format("2006-01-02"), end.Format("2006-01-02")))
		return
	}

	bookings, err := s.bookings.GetBookingsByOwnerRange(r.Context(), ownerID, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filePath, err := s.exporter.BookingsReport(bookings, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, filePath)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", database.ErrInvalidArgument, name)
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", database.ErrInvalidArgument, name)
	}
	return t, nil
}
