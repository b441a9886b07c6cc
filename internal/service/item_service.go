package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemService manages items, their booking-enriched cards and comments.
type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	cache    domain.ViewCache
	clock    Clock
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, cache domain.ViewCache, clock Clock, logger *zerolog.Logger) *ItemService {
	if clock == nil {
		clock = SystemClock()
	}
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		cache:    cache,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: item name is blank", database.ErrInvalidArgument)
	}
	if strings.TrimSpace(item.Description) == "" {
		return nil, fmt.Errorf("%w: item description is blank", database.ErrInvalidArgument)
	}

	exists, err := s.repo.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, ownerID)
	}

	if item.RequestID != nil {
		found, err := s.repo.RequestExists(ctx, *item.RequestID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: id %d", database.ErrRequestNotFound, *item.RequestID)
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("Item created")
	return item, nil
}

// UpdateItem применяет частичное обновление: nil-поля патча не трогают
// сохраненные значения.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch *models.ItemPatch) (*models.Item, error) {
	existing, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own item %d", database.ErrAccessDenied, ownerID, itemID)
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Available != nil {
		existing.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, existing); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateItem(ctx, existing.ID); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", existing.ID).Msg("Failed to invalidate item view")
		}
	}

	return existing, nil
}

// GetItem returns the item card. Last and next bookings are visible to the
// owner only; comments are visible to everyone.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*models.ItemWithBookings, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if userID == item.OwnerID && s.cache != nil {
		if view, err := s.cache.GetItemView(ctx, itemID); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("Failed to read item view cache")
		} else if view != nil {
			return view, nil
		}
	}

	view := &models.ItemWithBookings{Item: *item}

	view.Comments, err = s.repo.GetItemComments(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if userID == item.OwnerID {
		bookings, err := s.repo.GetApprovedBookingsByItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		now := s.clock.Now()
		view.LastBooking = LastBooking(bookings, now)
		view.NextBooking = NextBooking(bookings, now)

		if s.cache != nil {
			if err := s.cache.SetItemView(ctx, view); err != nil {
				s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("Failed to store item view cache")
			}
		}
	}

	return view, nil
}

// GetUserItems returns the owner's items, each with last/next bookings
// and comments.
func (s *ItemService) GetUserItems(ctx context.Context, ownerID int64, from, size int) ([]models.ItemWithBookings, error) {
	exists, err := s.repo.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, ownerID)
	}

	items, err := s.repo.GetUserItems(ctx, ownerID, from, size)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]models.ItemWithBookings, 0, len(items))
	for _, item := range items {
		view := models.ItemWithBookings{Item: item}

		bookings, err := s.repo.GetApprovedBookingsByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		view.LastBooking = LastBooking(bookings, now)
		view.NextBooking = NextBooking(bookings, now)

		view.Comments, err = s.repo.GetItemComments(ctx, item.ID)
		if err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	return views, nil
}

// SearchItems ищет доступные вещи по подстроке. Пустой или пробельный
// текст дает пустой результат без обращения к базе.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.Item{}, nil
	}

	items, err := s.repo.SearchItems(ctx, text, from, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// CreateComment publishes a comment. The author must have an approved
// booking of the item that already finished.
func (s *ItemService) CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is blank", database.ErrInvalidArgument)
	}

	exists, err := s.repo.UserExists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, authorID)
	}

	found, err := s.repo.ItemExists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: id %d", database.ErrItemNotFound, itemID)
	}

	completed, err := s.repo.ExistsCompletedBooking(ctx, itemID, authorID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, fmt.Errorf("%w: user %d has no finished approved booking of item %d",
			database.ErrNotAvailable, authorID, itemID)
	}

	// Уникальный индекс в базе остается последней линией защиты.
	already, err := s.repo.CommentExists(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, fmt.Errorf("%w: user %d already commented on item %d",
			database.ErrAlreadyExists, authorID, itemID)
	}

	comment := &models.Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	// Перечитываем, чтобы вернуть имя автора из связанной таблицы.
	comments, err := s.repo.GetItemComments(ctx, itemID)
	if err == nil {
		for i := range comments {
			if comments[i].ID == comment.ID {
				comment = &comments[i]
				break
			}
		}
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: authorID}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Warn().Err(err).Int64("comment_id", comment.ID).Msg("Failed to publish comment event")
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateItem(ctx, itemID); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("Failed to invalidate item view")
		}
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Msg("Comment created")
	return comment, nil
}
