package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type FailoverViewCache struct {
	primary  domain.ViewCache
	fallback domain.ViewCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// lastCheck хранит unix-наносекунды последней неудачной попытки,
	// обращения идут из конкурентных запросов
	lastCheck atomic.Int64
}

func NewFailoverViewCache(primary, fallback domain.ViewCache, logger *zerolog.Logger) *FailoverViewCache {
	return &FailoverViewCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverViewCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary view cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemWithBookings, error) {
	if !r.isDown.Load() {
		view, err := r.primary.GetItemView(ctx, itemID)
		if err == nil {
			return view, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Now().UnixNano()-r.lastCheck.Load() > int64(time.Minute) {
		view, err := r.primary.GetItemView(ctx, itemID)
		if err == nil {
			r.isDown.Store(false)
			return view, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetItemView(ctx, itemID)
}

func (r *FailoverViewCache) SetItemView(ctx context.Context, view *models.ItemWithBookings) error {
	if !r.isDown.Load() {
		err := r.primary.SetItemView(ctx, view)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetItemView(ctx, view)
}

func (r *FailoverViewCache) InvalidateItem(ctx context.Context, itemID int64) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateItem(ctx, itemID)
		if err == nil {
			// Keep the fallback consistent so a later failover does not
			// serve a view the primary already dropped.
			_ = r.fallback.InvalidateItem(ctx, itemID)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.InvalidateItem(ctx, itemID)
}

func (r *FailoverViewCache) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
