package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"
)

type MemoryViewCache struct {
	views      sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

type viewEntry struct {
	view      *models.ItemWithBookings
	expiresAt time.Time
}

func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{
		ttl: ttl,
	}
}

func (r *MemoryViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemWithBookings, error) {
	val, ok := r.views.Load(itemID)
	if !ok {
		return nil, nil
	}
	entry := val.(*viewEntry)
	if time.Now().After(entry.expiresAt) {
		r.views.Delete(itemID)
		return nil, nil
	}
	return entry.view, nil
}

func (r *MemoryViewCache) SetItemView(ctx context.Context, view *models.ItemWithBookings) error {
	r.views.Store(view.ID, &viewEntry{view: view, expiresAt: time.Now().Add(r.ttl)})
	return nil
}

func (r *MemoryViewCache) InvalidateItem(ctx context.Context, itemID int64) error {
	r.views.Delete(itemID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryViewCache) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(userID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(userID, entry)
	return entry.count <= limit, nil
}
