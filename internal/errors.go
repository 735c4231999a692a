package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheCorrupt indicates a cache file that exists but does not
	// contain valid JSON.
	ErrCacheCorrupt = errors.New("cache file corrupt")
	// ErrLockTimeout indicates the store's file lock could not be
	// acquired within the timeout.
	ErrLockTimeout = errors.New("timed out waiting for file lock")
	// ErrNoResults indicates the provider returned nothing for a query.
	ErrNoResults = errors.New("no results")
	// ErrYtdlpNotInstalled indicates the yt-dlp binary could not be found
	// or installed.
	ErrYtdlpNotInstalled = errors.New("yt-dlp not installed")
)

// CacheReadError reports a failure loading a cache file. Callers treat it
// as recoverable: the store proceeds as empty.
type CacheReadError struct {
	Path string
	Err  error
}

func (e *CacheReadError) Error() string {
	return fmt.Sprintf("reading cache %s: %v", e.Path, e.Err)
}

func (e *CacheReadError) Unwrap() error { return e.Err }

// CacheWriteError reports a failure persisting a cache file. The in-memory
// result that should have been written is still usable.
type CacheWriteError struct {
	Path string
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("writing cache %s: %v", e.Path, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

// FetchError reports a provider failure while listing a channel.
type FetchError struct {
	Channel string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching videos for %s: %v", e.Channel, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
