package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	// StatusCanceled числится в справочнике статусов исходной системы,
	// но ни одна операция его не выставляет.
	StatusCanceled = "CANCELED"
)

// SearchingState выбирает предикат фильтрации при выдаче списков бронирований.
// Не хранится в базе.
type SearchingState string

const (
	SearchAll      SearchingState = "ALL"
	SearchCurrent  SearchingState = "CURRENT"
	SearchPast     SearchingState = "PAST"
	SearchFuture   SearchingState = "FUTURE"
	SearchWaiting  SearchingState = "WAITING"
	SearchRejected SearchingState = "REJECTED"
)

var ErrUnknownSearchingState = errors.New("unknown searching state")

// ParseSearchingState разбирает токен фильтра. Пустая строка трактуется как ALL.
func ParseSearchingState(raw string) (SearchingState, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return SearchAll, nil
	}

	switch state := SearchingState(token); state {
	case SearchAll, SearchCurrent, SearchPast, SearchFuture, SearchWaiting, SearchRejected:
		return state, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSearchingState, token)
	}
}

const (
	// DefaultPageSize размер страницы по умолчанию для списочных запросов
	DefaultPageSize = 10

	// DefaultCacheTTL время жизни кэша карточки вещи
	DefaultCacheTTL = 5 * time.Minute

	// WorkerQueueSize размер очереди воркера синхронизации
	WorkerQueueSize = 128

	// RateLimitRequests количество запросов в окне на пользователя
	RateLimitRequests = 30

	// RateLimitWindow окно ограничения частоты запросов в секундах
	RateLimitWindow = 60
)
