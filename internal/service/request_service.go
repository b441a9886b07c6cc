package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages item requests and their answered items.
type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) CreateRequest(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: request description is blank", database.ErrInvalidArgument)
	}

	exists, err := s.repo.UserExists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, requesterID)
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", requesterID).Msg("Item request created")
	return request, nil
}

func (s *RequestService) GetUserRequests(ctx context.Context, userID int64) ([]models.ItemRequestWithItems, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, userID)
	}

	requests, err := s.repo.GetUserRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, requests)
}

func (s *RequestService) GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]models.ItemRequestWithItems, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, userID)
	}

	requests, err := s.repo.GetOtherRequests(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, requests)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestWithItems, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", database.ErrUserNotFound, userID)
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}

	return &models.ItemRequestWithItems{ItemRequest: *request, Items: items}, nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequestWithItems, error) {
	result := make([]models.ItemRequestWithItems, 0, len(requests))
	for _, request := range requests {
		items, err := s.repo.GetItemsByRequest(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []models.Item{}
		}
		result = append(result, models.ItemRequestWithItems{ItemRequest: request, Items: items})
	}
	return result, nil
}
