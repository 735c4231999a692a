package internal

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannel = "https://www.youtube.com/@testchannel"

// fakeLister implements ChannelLister with canned responses, recording
// the lower date bound of each call.
type fakeLister struct {
	videos []VideoRecord
	err    error
	afters []string
}

func (f *fakeLister) ChannelVideos(ctx context.Context, channelURL, after string) ([]VideoRecord, error) {
	f.afters = append(f.afters, after)
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.videos), nil
}

// newTestSynchronizer opens a synchronizer over a store in a temp dir
// and returns it together with the cache file path.
func newTestSynchronizer(t *testing.T, lister ChannelLister) (*Synchronizer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "channel_cache.json")
	store, err := OpenChannelStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewSynchronizer(lister, store, NewUIManager(false, true)), path
}

func video(id, date string) VideoRecord {
	return VideoRecord{ID: id, Title: "Video " + id, URL: WatchURL(id), UploadDate: date}
}

func readCacheFile(t *testing.T, path string) CacheStore {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cache CacheStore
	require.NoError(t, json.Unmarshal(data, &cache))
	return cache
}

func seedCacheFile(t *testing.T, path string, cache CacheStore) {
	t.Helper()
	data, err := json.MarshalIndent(cache, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestSyncColdCache(t *testing.T) {
	lister := &fakeLister{videos: []VideoRecord{
		video("a", "20230101"),
		video("b", "20230102"),
		video("c", "20230103"),
	}}
	s, path := newTestSynchronizer(t, lister)

	updatedAt := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return updatedAt }

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
	require.NoError(t, err)

	// Provider order is preserved and nothing is filtered
	assert.Equal(t, lister.videos, got)
	// Empty cache means no date bound, even with FetchOnlyNew
	assert.Equal(t, []string{""}, lister.afters)

	// Persisted listing matches what was returned
	cache := readCacheFile(t, path)
	entry, ok := cache[testChannel]
	require.True(t, ok, "channel entry should be persisted under the caller's URL")
	assert.Equal(t, got, entry.Videos)
	assert.True(t, entry.LastUpdated.Equal(updatedAt))
}

func TestSyncWarmCacheSkipsProvider(t *testing.T) {
	cached := []VideoRecord{video("a", "20230101"), video("b", "20230102")}
	lister := &fakeLister{videos: []VideoRecord{video("x", "20230301")}}
	s, path := newTestSynchronizer(t, lister)
	seedCacheFile(t, path, CacheStore{testChannel: {Videos: cached}})

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, cached, got)
	assert.Empty(t, lister.afters, "warm cache without flags must not call the provider")

	// Repeat runs are idempotent
	again, err := s.Sync(context.Background(), testChannel, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Empty(t, lister.afters)
}

func TestSyncLimitTruncatesResultOnly(t *testing.T) {
	all := []VideoRecord{
		video("a", "20230101"),
		video("b", "20230102"),
		video("c", "20230103"),
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limit smaller than listing", 2, 2},
		{"limit zero returns all", 0, 3},
		{"limit negative returns all", -1, 3},
		{"limit beyond listing returns all", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{videos: all}
			s, path := newTestSynchronizer(t, lister)

			got, err := s.Sync(context.Background(), testChannel, SyncOptions{Limit: tt.limit, ForceUpdate: true})
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			assert.Equal(t, all[:tt.want], got)

			// The full listing is persisted regardless of the limit
			cache := readCacheFile(t, path)
			assert.Len(t, cache[testChannel].Videos, len(all))
		})
	}

	t.Run("limit applies to cached listings too", func(t *testing.T) {
		lister := &fakeLister{}
		s, path := newTestSynchronizer(t, lister)
		seedCacheFile(t, path, CacheStore{testChannel: {Videos: all}})

		got, err := s.Sync(context.Background(), testChannel, SyncOptions{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, all[:1], got)
		assert.Empty(t, lister.afters)

		// Serving a truncated listing must not shrink the cache
		cache := readCacheFile(t, path)
		assert.Len(t, cache[testChannel].Videos, len(all))
	})
}

// TestSyncIncrementalAppend covers the core merge semantics: only videos
// newer than the cached ones are requested, records already cached are
// kept untouched (in order), and refetched duplicates are dropped.
func TestSyncIncrementalAppend(t *testing.T) {
	cached := []VideoRecord{video("a", "20230101"), video("b", "20230102")}
	lister := &fakeLister{videos: []VideoRecord{
		video("c", "20230103"),
		video("b", "20230102"), // boundary-day record comes back again
	}}
	s, path := newTestSynchronizer(t, lister)
	seedCacheFile(t, path, CacheStore{testChannel: {Videos: cached}})

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
	require.NoError(t, err)

	// The newest cached date is the inclusive lower bound
	assert.Equal(t, []string{"20230102"}, lister.afters)

	want := []VideoRecord{video("a", "20230101"), video("b", "20230102"), video("c", "20230103")}
	assert.Equal(t, want, got)
	assert.Equal(t, cached, got[:len(cached)], "cached records must survive the merge unchanged")

	cache := readCacheFile(t, path)
	assert.Equal(t, want, cache[testChannel].Videos)
}

func TestSyncIncrementalOverlapAbsorbed(t *testing.T) {
	cached := []VideoRecord{video("a", "20230102"), video("b", "20230102")}
	// Everything cached comes back plus one new video
	lister := &fakeLister{videos: []VideoRecord{
		video("c", "20230102"),
		video("b", "20230102"),
		video("a", "20230102"),
	}}
	s, path := newTestSynchronizer(t, lister)
	seedCacheFile(t, path, CacheStore{testChannel: {Videos: cached}})

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
	require.NoError(t, err)

	assert.Equal(t, []VideoRecord{
		video("a", "20230102"),
		video("b", "20230102"),
		video("c", "20230102"),
	}, got)

	ids := make(map[string]int)
	for _, v := range got {
		ids[v.ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "video %s appears %d times", id, n)
	}
}

func TestSyncForceUpdateReplaces(t *testing.T) {
	cached := []VideoRecord{video("stale", "20220101")}
	fresh := []VideoRecord{video("x", "20230201"), video("y", "20230202")}
	lister := &fakeLister{videos: fresh}
	s, path := newTestSynchronizer(t, lister)
	seedCacheFile(t, path, CacheStore{testChannel: {Videos: cached}})

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{ForceUpdate: true})
	require.NoError(t, err)

	assert.Equal(t, []string{""}, lister.afters, "force update fetches the full listing")
	assert.Equal(t, fresh, got)

	cache := readCacheFile(t, path)
	assert.Equal(t, fresh, cache[testChannel].Videos, "stale records are replaced, not merged")
}

func TestSyncFetchOnlyNewWinsOverForce(t *testing.T) {
	cached := []VideoRecord{video("a", "20230101")}
	lister := &fakeLister{videos: []VideoRecord{video("b", "20230105")}}
	s, path := newTestSynchronizer(t, lister)
	seedCacheFile(t, path, CacheStore{testChannel: {Videos: cached}})

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{ForceUpdate: true, FetchOnlyNew: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"20230101"}, lister.afters, "incremental mode takes precedence")
	assert.Equal(t, []VideoRecord{video("a", "20230101"), video("b", "20230105")}, got)

	cache := readCacheFile(t, path)
	assert.Len(t, cache[testChannel].Videos, 2)
}

func TestSyncFetchErrorLeavesCacheUntouched(t *testing.T) {
	cached := CacheStore{testChannel: {Videos: []VideoRecord{video("a", "20230101")}}}
	lister := &fakeLister{err: errors.New("network down")}
	s, path := newTestSynchronizer(t, lister)
	seedCacheFile(t, path, cached)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
	assert.Nil(t, got)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, testChannel, fetchErr.Channel)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed fetch must not rewrite the cache file")
}

func TestSyncEmptyFetchPersistsNothing(t *testing.T) {
	t.Run("warm cache", func(t *testing.T) {
		cached := CacheStore{testChannel: {Videos: []VideoRecord{video("a", "20230101")}}}
		lister := &fakeLister{videos: nil}
		s, path := newTestSynchronizer(t, lister)
		seedCacheFile(t, path, cached)

		before, err := os.ReadFile(path)
		require.NoError(t, err)

		got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got, "empty result is an empty list, not nil")

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("cold cache", func(t *testing.T) {
		lister := &fakeLister{videos: nil}
		s, path := newTestSynchronizer(t, lister)

		got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "nothing should be written for an empty fetch")
	})
}

func TestSyncCorruptCacheRefetches(t *testing.T) {
	fresh := []VideoRecord{video("a", "20230101")}
	lister := &fakeLister{videos: fresh}
	s, path := newTestSynchronizer(t, lister)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true})
	require.NoError(t, err, "a corrupt cache downgrades to a full fetch, not an error")
	assert.Equal(t, fresh, got)
	assert.Equal(t, []string{""}, lister.afters)

	// The rewritten file is valid again
	cache := readCacheFile(t, path)
	assert.Equal(t, fresh, cache[testChannel].Videos)
}

func TestSyncWriteFailureStillReturnsListing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	path := filepath.Join(dir, "channel_cache.json")
	store, err := OpenChannelStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fresh := []VideoRecord{video("a", "20230101"), video("b", "20230102")}
	lister := &fakeLister{videos: fresh}
	s := NewSynchronizer(lister, store, NewUIManager(false, true))

	// Removing the directory makes the atomic write fail
	require.NoError(t, os.RemoveAll(dir))

	got, err := s.Sync(context.Background(), testChannel, SyncOptions{FetchOnlyNew: true, Limit: 1})

	var writeErr *CacheWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, fresh[:1], got, "the merged listing is returned despite the write failure")
}
