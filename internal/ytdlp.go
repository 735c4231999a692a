package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// VideoMetadata contains YouTube video information
type VideoMetadata struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Channel     string   `json:"channel"`
	Uploader    string   `json:"uploader"`
	Duration    float64  `json:"duration"`
	UploadDate  string   `json:"upload_date"`
	ViewCount   int      `json:"view_count"`
	LikeCount   int      `json:"like_count"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	HasCaptions bool     `json:"has_captions"`
}

// YouTube wraps yt-dlp for search, channel listings, metadata, and audio
// downloads. Listings run the yt-dlp binary through a CommandRunner so
// the exact invocation can be tested; metadata and audio use the go-ytdlp
// bindings.
type YouTube struct {
	runner    CommandRunner
	ytdlpPath string
	audioDir  string
	verbose   bool
}

// NewYouTube creates a YouTube provider. ytdlpPath is the yt-dlp binary
// for listing invocations; audioDir receives downloaded audio files.
func NewYouTube(runner CommandRunner, ytdlpPath, audioDir string, verbose bool) *YouTube {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &YouTube{
		runner:    runner,
		ytdlpPath: ytdlpPath,
		audioDir:  audioDir,
		verbose:   verbose,
	}
}

// Search returns up to limit videos matching query, using yt-dlp's
// ytsearch pseudo-URL. Results are not cached.
func (yt *YouTube) Search(ctx context.Context, query string, limit int) ([]VideoRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	target := fmt.Sprintf("ytsearch%d:%s", limit, query)
	records, err := yt.flatPlaylist(ctx, target, "")
	if err != nil {
		return nil, fmt.Errorf("searching videos: %w", err)
	}
	return records, nil
}

// ChannelVideos lists a channel's videos, newest first. A non-empty
// after (YYYYMMDD) restricts the listing to videos uploaded on or after
// that date. This is the fetch side of the cache synchronizer.
func (yt *YouTube) ChannelVideos(ctx context.Context, channelURL, after string) ([]VideoRecord, error) {
	return yt.flatPlaylist(ctx, NormalizeChannelURL(channelURL), after)
}

func (yt *YouTube) flatPlaylist(ctx context.Context, target, after string) ([]VideoRecord, error) {
	args := []string{"--flat-playlist", "-J", "--no-warnings", "--ignore-errors"}
	if after != "" {
		args = append(args, "--dateafter", after)
	}
	args = append(args, target)

	if yt.verbose {
		fmt.Printf("Running %s %s\n", yt.ytdlpPath, strings.Join(args, " "))
	}

	out, err := yt.runner.Run(ctx, yt.ytdlpPath, args...)
	// With --ignore-errors yt-dlp can exit non-zero while still
	// producing a usable listing.
	if err != nil && len(out) == 0 {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w (looked for %s)", ErrYtdlpNotInstalled, yt.ytdlpPath)
		}
		return nil, fmt.Errorf("running yt-dlp: %w", err)
	}

	records, dropped, err := parsePlaylistJSON(out)
	if err != nil {
		return nil, err
	}
	if dropped > 0 && yt.verbose {
		fmt.Printf("Skipped %d entries without a video ID\n", dropped)
	}
	return records, nil
}

// playlistJSON is the shape of yt-dlp's -J output for playlists and
// search results.
type playlistJSON struct {
	Entries []ytdlpEntry `json:"entries"`
}

type ytdlpEntry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	UploadDate  string  `json:"upload_date"`
	Timestamp   int64   `json:"timestamp"`
	ViewCount   int     `json:"view_count"`
	Description string  `json:"description"`
}

// parsePlaylistJSON converts yt-dlp flat playlist output into validated
// records. Entries without an ID are dropped (their count is returned)
// and repeated IDs keep the first occurrence.
func parsePlaylistJSON(data []byte) ([]VideoRecord, int, error) {
	var playlist playlistJSON
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, 0, fmt.Errorf("parsing yt-dlp output: %w", err)
	}

	seen := make(map[string]struct{}, len(playlist.Entries))
	records := make([]VideoRecord, 0, len(playlist.Entries))
	dropped := 0
	for _, e := range playlist.Entries {
		rec, err := recordFromEntry(e)
		if err != nil {
			dropped++
			continue
		}
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}
	return records, dropped, nil
}

// recordFromEntry builds a cacheable record from a raw yt-dlp entry. The
// URL is always derived from the ID; a malformed upload date becomes
// empty, with the entry timestamp as fallback.
func recordFromEntry(e ytdlpEntry) (VideoRecord, error) {
	if e.ID == "" {
		return VideoRecord{}, errors.New("entry missing id")
	}
	date := NormalizeUploadDate(e.UploadDate)
	if date == "" && e.Timestamp > 0 {
		date = time.Unix(e.Timestamp, 0).UTC().Format("20060102")
	}
	return VideoRecord{
		ID:          e.ID,
		Title:       e.Title,
		URL:         WatchURL(e.ID),
		Duration:    int(e.Duration),
		UploadDate:  date,
		ViewCount:   e.ViewCount,
		Description: e.Description,
	}, nil
}

// Metadata fetches video details using go-ytdlp
func (yt *YouTube) Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error) {
	if yt.verbose {
		fmt.Println("Extracting video metadata...")
	}

	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't process playlists
		SkipDownload()    // Don't download the actual video

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose {
			fmt.Printf("Metadata extraction error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	// Parse into a raw map first to extract subtitle info
	var rawData map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &rawData); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}
	metadata.UploadDate = NormalizeUploadDate(metadata.UploadDate)
	metadata.HasCaptions = extractSubtitleInfo(rawData)

	if yt.verbose {
		fmt.Println("Metadata extraction completed successfully")
		fmt.Printf("Title: %s\n", metadata.Title)
		fmt.Printf("Channel: %s\n", metadata.Channel)
		fmt.Printf("Duration: %.2f seconds\n", metadata.Duration)
	}

	return &metadata, nil
}

// Audio gets mp3 audio from a YouTube video and returns the file path.
func (yt *YouTube) Audio(ctx context.Context, youtubeURL string) (string, error) {
	if yt.verbose {
		fmt.Println("Downloading audio...")
	}

	// Extract video ID to construct the output filename
	videoID, err := getVideoID(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("extracting video ID: %w", err)
	}

	if err := EnsureDirs(yt.audioDir); err != nil {
		return "", fmt.Errorf("creating audio directory: %w", err)
	}
	outputPath := filepath.Join(yt.audioDir, "%(id)s.%(ext)s")

	dl := ytdlp.New().
		Format("bestaudio"). // Select best audio format
		ExtractAudio().      // Extract audio from video
		AudioFormat("mp3").  // Convert to MP3 format
		AudioQuality("10").  // Set audio quality (0 is best, 10 is worst)
		Output(outputPath)

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose {
			fmt.Printf("Audio download error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return "", fmt.Errorf("yt-dlp failed: %w\nOutput: %s", err, result.Stderr)
	}

	if yt.verbose {
		fmt.Println("Audio download completed successfully")
	}

	return filepath.Join(yt.audioDir, videoID+".mp3"), nil
}

// NormalizeChannelURL appends /videos to bare channel URLs so yt-dlp
// lists uploads instead of the channel home tabs.
func NormalizeChannelURL(raw string) string {
	u := strings.TrimRight(raw, "/")
	for _, tab := range []string{"/videos", "/streams", "/shorts", "/live"} {
		if strings.HasSuffix(u, tab) {
			return u
		}
	}
	if strings.Contains(u, "/@") || strings.Contains(u, "/channel/") ||
		strings.Contains(u, "/c/") || strings.Contains(u, "/user/") {
		return u + "/videos"
	}
	return u
}

// extractSubtitleInfo extracts subtitle availability from yt-dlp JSON output
func extractSubtitleInfo(rawData map[string]any) bool {
	if subtitles, ok := rawData["subtitles"].(map[string]any); ok && len(subtitles) > 0 {
		return true
	}
	if autoCaptions, ok := rawData["automatic_captions"].(map[string]any); ok && len(autoCaptions) > 0 {
		return true
	}
	return false
}
