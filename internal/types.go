package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// VideoRecord is one video's metadata as returned by the provider and
// cached on disk. Records are immutable once fetched; the JSON field
// names match the cache files written by earlier versions of this tool.
type VideoRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Duration    int    `json:"duration"`
	UploadDate  string `json:"upload_date"`
	ViewCount   int    `json:"view_count"`
	Description string `json:"description"`
}

// Validate reports whether the record is cacheable.
func (v VideoRecord) Validate() error {
	if v.ID == "" {
		return errors.New("video record missing id")
	}
	return nil
}

// NormalizeUploadDate returns s if it is an 8-digit YYYYMMDD date and the
// empty string otherwise.
func NormalizeUploadDate(s string) string {
	if len(s) != 8 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}

// ChannelCacheEntry is the cached listing for one channel.
type ChannelCacheEntry struct {
	LastUpdated time.Time     `json:"last_updated"`
	Videos      []VideoRecord `json:"videos"`
}

// LatestUploadDate returns the lexicographic maximum of the entry's
// upload dates, skipping records without one. YYYYMMDD strings order the
// same way chronologically, so this is the newest known date.
func (e ChannelCacheEntry) LatestUploadDate() string {
	var latest string
	for _, v := range e.Videos {
		if v.UploadDate > latest {
			latest = v.UploadDate
		}
	}
	return latest
}

// CacheStore maps channel URLs to their cached listings. It is the
// in-memory form of the whole channel cache file.
type CacheStore map[string]ChannelCacheEntry

// TranscriptCache maps video IDs to transcript text.
type TranscriptCache map[string]string

// ContentType represents the type of YouTube content
type ContentType int

const (
	ContentTypeUnknown ContentType = iota
	ContentTypeVideo
	ContentTypePlaylist
	ContentTypeChannel
	ContentTypeCommand
)

// String returns a human-readable representation of the content type
func (ct ContentType) String() string {
	switch ct {
	case ContentTypeVideo:
		return "video"
	case ContentTypePlaylist:
		return "playlist"
	case ContentTypeChannel:
		return "channel"
	case ContentTypeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ParsedArg represents the result of parsing a command line argument
type ParsedArg struct {
	ContentType   ContentType
	OriginalInput string
	NormalizedURL string
	ID            string
	Error         error
}

// IsValid returns true if the parsed argument is valid and has no errors
func (p *ParsedArg) IsValid() bool {
	return p.Error == nil && p.ContentType != ContentTypeUnknown && p.ContentType != ContentTypeCommand
}

// String returns a formatted representation of the parsed argument
func (p *ParsedArg) String() string {
	if p.Error != nil {
		return fmt.Sprintf("ParsedArg{type=%s, input=%q, error=%v}", p.ContentType, p.OriginalInput, p.Error)
	}
	return fmt.Sprintf("ParsedArg{type=%s, id=%s, url=%s}", p.ContentType, p.ID, p.NormalizedURL)
}

// SuggestCorrection provides helpful suggestions for invalid inputs
func (p *ParsedArg) SuggestCorrection(availableCommands []string) string {
	if p.ContentType != ContentTypeCommand {
		return ""
	}

	input := strings.ToLower(p.OriginalInput)
	var suggestions []string

	// Find similar commands
	for _, cmd := range availableCommands {
		if strings.Contains(cmd, input) || strings.Contains(input, cmd) {
			suggestions = append(suggestions, cmd)
		}
	}

	if len(suggestions) > 0 {
		return fmt.Sprintf("did you mean: %s", strings.Join(suggestions, ", "))
	}

	return "use --help to see available commands"
}
