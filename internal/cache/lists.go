package cache

import (
	"context"
	"time"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

const (
	tagsKey    = "lists:tags"
	sectorsKey = "lists:sectors"
)

// ListSource loads the reference lists from the backend.
type ListSource interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	ListSectors(ctx context.Context) ([]model.Sector, error)
}

// jsonStore is the part of RedisCache the lists need.
type jsonStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Lists serves the tag and sector lists used by the search and upload
// forms, cached in Redis for ttl. With a nil cache every call goes to the
// backend.
type Lists struct {
	cache    jsonStore
	src      ListSource
	ttl      time.Duration
	onLookup func(list string, hit bool)
}

func NewLists(cache *RedisCache, src ListSource, ttl time.Duration) *Lists {
	l := &Lists{
		src:      src,
		ttl:      ttl,
		onLookup: func(string, bool) {},
	}
	if cache != nil {
		l.cache = cache
	}
	return l
}

// OnLookup installs a hook called for every cached lookup.
func (l *Lists) OnLookup(fn func(list string, hit bool)) {
	if fn != nil {
		l.onLookup = fn
	}
}

func (l *Lists) Tags(ctx context.Context) ([]model.Tag, error) {
	return cached(ctx, l, tagsKey, "tags", l.src.ListTags)
}

func (l *Lists) Sectors(ctx context.Context) ([]model.Sector, error) {
	return cached(ctx, l, sectorsKey, "sectors", l.src.ListSectors)
}

// TagNames is Tags reduced to names, in backend order.
func (l *Lists) TagNames(ctx context.Context) ([]string, error) {
	tags, err := l.Tags(ctx)
	if err != nil {
		return nil, err
	}
	return model.TagNames(tags), nil
}

// ReloadTags loads the tags from the backend and replaces the cached copy.
// When the backend fails the cached copy is left as it was.
func (l *Lists) ReloadTags(ctx context.Context) ([]model.Tag, error) {
	return reload(ctx, l, tagsKey, l.src.ListTags)
}

func (l *Lists) ReloadSectors(ctx context.Context) ([]model.Sector, error) {
	return reload(ctx, l, sectorsKey, l.src.ListSectors)
}

func (l *Lists) InvalidateTags(ctx context.Context) {
	l.invalidate(ctx, tagsKey)
}

func (l *Lists) InvalidateSectors(ctx context.Context) {
	l.invalidate(ctx, sectorsKey)
}

func (l *Lists) invalidate(ctx context.Context, key string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, key); err != nil {
		logger.Warn("cache invalidate failed", "key", key, "error", err)
	}
}

func cached[T any](ctx context.Context, l *Lists, key, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	if l.cache != nil {
		var items []T
		found, err := l.cache.GetJSON(ctx, key, &items)
		if err != nil {
			logger.Warn("cache read failed", "key", key, "error", err)
		}
		l.onLookup(name, found)
		if found {
			return items, nil
		}
	}

	return reload(ctx, l, key, load)
}

func reload[T any](ctx context.Context, l *Lists, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if l.cache != nil {
		if err := l.cache.SetJSON(ctx, key, items, l.ttl); err != nil {
			logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return items, nil
}
