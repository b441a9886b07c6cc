package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation, the owner's decision
// and retrieval authorization.
type BookingService struct {
	repo       domain.Repository
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	cache      domain.ViewCache
	clock      Clock
	logger     *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, cache domain.ViewCache, clock Clock, logger *zerolog.Logger) *BookingService {
	if clock == nil {
		clock = SystemClock()
	}
	return &BookingService{
		repo:       repo,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		cache:      cache,
		clock:      clock,
		logger:     logger,
	}
}

// CreateBooking validates the request and persists a WAITING booking.
// Пересечения интервалов по одной вещи не проверяются: исходная система
// допускает несколько подтвержденных бронирований на одно время.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s is not before end %s",
			database.ErrInvalidTimeRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	exists, err := s.repo.UserExists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, bookerID)
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		// Владелец не может бронировать собственную вещь.
		return nil, fmt.Errorf("%w: user %d owns item %d", database.ErrAccessDenied, bookerID, itemID)
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: item %d", database.ErrNotAvailable, itemID)
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	created, err := s.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, events.EventBookingCreated, "upsert", created)
	return created, nil
}

// SetBookingStatus applies the owner's decision exactly once. Терминальность
// решения гарантирует условный UPDATE в хранилище, а не блокировка в памяти.
func (s *BookingService) SetBookingStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ItemOwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own item %d", database.ErrAccessDenied, ownerID, booking.ItemID)
	}
	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: booking %d is %s", database.ErrAlreadyDecided, bookingID, booking.Status)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.DecideBooking(ctx, bookingID, status); err != nil {
		return nil, err
	}

	decided, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.IncBookingDecision(status)
	s.afterChange(ctx, eventType, "update_status", decided)
	return decided, nil
}

// GetBooking returns the booking to its booker or to the item's owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.ItemOwnerID != userID {
		return nil, fmt.Errorf("%w: user %d is neither booker nor owner of booking %d",
			database.ErrAccessDenied, userID, bookingID)
	}
	return booking, nil
}

func (s *BookingService) GetBookingsByBooker(ctx context.Context, userID int64, state models.SearchingState, from, size int) ([]models.Booking, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, userID)
	}

	return s.repo.GetBookingsByBooker(ctx, userID, state, s.clock.Now(), from, size)
}

// GetBookingsByOwner fails with not found when the user owns no items,
// воспроизводя поведение исходной системы на этом эндпоинте.
func (s *BookingService) GetBookingsByOwner(ctx context.Context, userID int64, state models.SearchingState, from, size int) ([]models.Booking, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, userID)
	}

	hasItems, err := s.repo.UserHasItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasItems {
		return nil, fmt.Errorf("%w: user %d has no items", database.ErrItemNotFound, userID)
	}

	return s.repo.GetBookingsByOwner(ctx, userID, state, s.clock.Now(), from, size)
}

func (s *BookingService) GetBookingsByOwnerRange(ctx context.Context, ownerID int64, start, end time.Time) ([]models.Booking, error) {
	exists, err := s.repo.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, ownerID)
	}

	return s.repo.GetBookingsByOwnerRange(ctx, ownerID, start, end)
}

func (s *BookingService) afterChange(ctx context.Context, eventType, taskType string, booking *models.Booking) {
	if s.eventBus != nil {
		payload := events.BookingEventPayload{
			BookingID:  booking.ID,
			ItemID:     booking.ItemID,
			ItemName:   booking.ItemName,
			BookerID:   booking.BookerID,
			BookerName: booking.BookerName,
			Status:     booking.Status,
			Start:      booking.Start,
			End:        booking.End,
		}
		if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
			s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
		}
	}

	if s.syncWorker != nil {
		if err := s.syncWorker.EnqueueTask(ctx, taskType, booking); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("sync enqueue error")
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateItem(ctx, booking.ItemID); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", booking.ItemID).Msg("item view invalidation failed")
		}
	}
}
