package api

import (
	"errors"
	"net/http"

	"shareit/internal/database"
	"shareit/internal/models"
)

// mapError translates business errors into HTTP codes. Access violations
// surface as 404 so callers cannot probe for foreign entities. Unknown
// errors return a generic 500 without the internal message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotAvailable),
		errors.Is(err, database.ErrInvalidTimeRange),
		errors.Is(err, database.ErrInvalidArgument),
		errors.Is(err, database.ErrAlreadyDecided),
		errors.Is(err, models.ErrUnknownSearchingState):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrAccessDenied):
		// Тело не раскрывает причину, снаружи неотличимо от отсутствия.
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().
			Err(err).
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("path", r.URL.Path).
			Msg("Unhandled error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
