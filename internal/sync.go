package internal

import (
	"context"
	"slices"
	"sync"
	"time"
)

// ChannelLister fetches a channel's videos, newest first. A non-empty
// after (YYYYMMDD) bounds the listing to videos uploaded on or after that
// date.
type ChannelLister interface {
	ChannelVideos(ctx context.Context, channelURL, after string) ([]VideoRecord, error)
}

// SyncOptions control one channel cache sync.
type SyncOptions struct {
	// Limit caps the number of records returned; <= 0 returns all.
	// It never affects what is persisted.
	Limit int
	// ForceUpdate refetches the full listing even when cached.
	ForceUpdate bool
	// FetchOnlyNew fetches only videos newer than the cache and appends
	// them. It takes precedence over ForceUpdate.
	FetchOnlyNew bool
}

// Synchronizer keeps the channel cache in step with the provider. All
// collaborators are supplied by the caller; Sync calls are serialized
// internally so it is safe to share across MCP handlers.
type Synchronizer struct {
	lister ChannelLister
	store  *ChannelStore
	ui     UIManager
	now    func() time.Time
	mu     sync.Mutex
}

// NewSynchronizer returns a Synchronizer over the given provider and
// store.
func NewSynchronizer(lister ChannelLister, store *ChannelStore, ui UIManager) *Synchronizer {
	return &Synchronizer{lister: lister, store: store, ui: ui, now: time.Now}
}

// Sync returns the videos for channelURL, consulting the cache first.
//
// With no options and a warm cache it returns the cached listing without
// touching the network. With FetchOnlyNew and a warm cache it fetches
// only videos uploaded on or after the newest cached date and appends the
// unseen ones, never dropping cached records. Otherwise it fetches the
// full listing and replaces the cached entry.
//
// An unreadable or corrupt cache file downgrades to a full fetch with a
// warning. A provider failure returns a *FetchError and leaves the cache
// untouched, as does an empty fetch. A persist failure returns the merged
// listing together with a *CacheWriteError.
func (s *Synchronizer) Sync(ctx context.Context, channelURL string, opts SyncOptions) ([]VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.store.Load()
	if err != nil {
		s.ui.Warning("cache unreadable, refetching: %v", err)
		cache = CacheStore{}
	}
	cached := cache[channelURL]

	var after string
	switch {
	case opts.FetchOnlyNew && len(cached.Videos) > 0:
		after = cached.LatestUploadDate()
	case !opts.ForceUpdate && len(cached.Videos) > 0:
		return truncated(cached.Videos, opts.Limit), nil
	}

	fresh, err := s.lister.ChannelVideos(ctx, channelURL, after)
	if err != nil {
		return nil, &FetchError{Channel: channelURL, Err: err}
	}
	if len(fresh) == 0 {
		return []VideoRecord{}, nil
	}

	videos := fresh
	if opts.FetchOnlyNew && len(cached.Videos) > 0 {
		videos = appendNew(cached.Videos, fresh)
	}

	cache[channelURL] = ChannelCacheEntry{LastUpdated: s.now(), Videos: videos}
	if err := s.store.Save(cache); err != nil {
		// The merged listing is still good; hand it back along with
		// the write failure.
		return truncated(videos, opts.Limit), err
	}
	return truncated(videos, opts.Limit), nil
}

// appendNew returns existing plus the fresh records whose IDs are not
// already present, preserving both orders.
func appendNew(existing, fresh []VideoRecord) []VideoRecord {
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v.ID] = struct{}{}
	}
	merged := slices.Clone(existing)
	for _, v := range fresh {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		merged = append(merged, v)
	}
	return merged
}

func truncated(videos []VideoRecord, limit int) []VideoRecord {
	if limit > 0 && len(videos) > limit {
		return videos[:limit]
	}
	return videos
}
