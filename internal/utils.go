package internal

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ParseArg normalizes YouTube video IDs and URLs, now also handles playlists
func ParseArg(arg string) (string, string) {
	if strings.HasPrefix(arg, "https://") {
		// Try video ID first - prioritize individual videos over playlists
		videoID, err := getVideoID(arg)
		if err == nil {
			// Successfully extracted video ID, use it even if URL also has playlist
			return arg, videoID
		}

		// No video ID found, check if it's a playlist URL
		if strings.Contains(arg, "list=") {
			playlistID, err := getPlaylistID(arg)
			if err != nil {
				return arg, arg
			}
			return arg, playlistID
		}

		// Fall back to original arg if we can't extract either
		return arg, arg
	}

	// Check if the arg looks like a playlist ID
	if IsValidPlaylistID(arg) {
		return "https://www.youtube.com/playlist?list=" + arg, arg
	}

	return WatchURL(arg), arg
}

// ClassifyArg determines what kind of YouTube reference an argument is:
// a channel URL, a video URL or ID, a playlist, or a likely mistyped
// command.
func ClassifyArg(arg string) *ParsedArg {
	arg = strings.TrimSpace(arg)
	p := &ParsedArg{OriginalInput: arg}

	switch {
	case IsChannelURL(arg):
		p.ContentType = ContentTypeChannel
		p.NormalizedURL = NormalizeChannelURL(arg)
		p.ID = p.NormalizedURL
	case strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://"):
		if videoID, err := getVideoID(arg); err == nil {
			p.ContentType = ContentTypeVideo
			p.ID = videoID
			p.NormalizedURL = WatchURL(videoID)
		} else if playlistID, perr := getPlaylistID(arg); perr == nil {
			p.ContentType = ContentTypePlaylist
			p.ID = playlistID
			p.NormalizedURL = "https://www.youtube.com/playlist?list=" + playlistID
		} else {
			p.Error = err
		}
	case IsValidYouTubeID(arg):
		p.ContentType = ContentTypeVideo
		p.ID = arg
		p.NormalizedURL = WatchURL(arg)
	case IsValidPlaylistID(arg):
		p.ContentType = ContentTypePlaylist
		p.ID = arg
		p.NormalizedURL = "https://www.youtube.com/playlist?list=" + arg
	case IsLikelyCommand(arg):
		p.ContentType = ContentTypeCommand
	default:
		p.Error = fmt.Errorf("not a recognizable YouTube URL or ID: %s", arg)
	}

	return p
}

// IsChannelURL reports whether the argument is a YouTube channel URL.
func IsChannelURL(arg string) bool {
	if !strings.Contains(arg, "youtube.com/") {
		return false
	}
	if strings.Contains(arg, "watch?") || strings.Contains(arg, "playlist?") {
		return false
	}
	return strings.Contains(arg, "/@") || strings.Contains(arg, "/channel/") ||
		strings.Contains(arg, "/c/") || strings.Contains(arg, "/user/")
}

// VideoIDExtractor extracts video IDs from YouTube URLs
type VideoIDExtractor func(string) (string, error)

// Default implementation of video ID extraction
var getVideoID VideoIDExtractor = func(youtubeURL string) (string, error) {
	// Trim any leading or trailing whitespace from the URL
	youtubeURL = strings.TrimSpace(youtubeURL)
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	if u.Host != "www.youtube.com" && u.Host != "youtube.com" && u.Host != "youtu.be" {
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}

	// Don't extract video IDs from playlist URLs
	if strings.Contains(u.Path, "/playlist") {
		return "", fmt.Errorf("this is a playlist URL, not a video URL: %s", youtubeURL)
	}

	parts := strings.Split(u.Path, "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1], nil
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
}

// ParseURLSet splits a comma-separated URL list, trimming whitespace and
// dropping duplicates while preserving order.
func ParseURLSet(csv string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, raw := range strings.Split(csv, ",") {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// AskUser is a variable that holds the function for asking user confirmation
// This allows it to be replaced in tests
var AskUser = func(message string) bool {
	fmt.Printf("%s (y/N): ", message)
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		response := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return strings.HasPrefix(response, "y")
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
	return false
}

// CleanupTempDir purges files from a temporary directory
func CleanupTempDir(tempDir string) error {
	// Check if directory exists
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to clean up
	}

	// Read directory contents
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}

	// Remove each file in the directory
	for _, entry := range entries {
		filePath := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", filePath, err)
		}
	}

	// Try to remove the directory itself
	if err := os.Remove(tempDir); err != nil {
		// It's okay if we can't remove the directory (it might not be empty)
		// Just log a warning
		fmt.Fprintf(os.Stderr, "Note: could not remove temp directory %s: %v\n", tempDir, err)
	}

	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	// YouTube video IDs are exactly 11 characters long
	if len(id) != 11 {
		return false
	}

	// YouTube video IDs contain only alphanumeric characters, hyphens, and underscores
	matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
	return matched
}

// IsLikelyCommand checks if a string looks like it might be a mistyped command
func IsLikelyCommand(arg string) bool {
	// Short strings (1-10 chars) that don't look like YouTube IDs or playlist IDs are likely commands
	if len(arg) <= 10 && !IsValidYouTubeID(arg) && !IsValidPlaylistID(arg) {
		return true
	}
	return false
}

// IsValidPlaylistID checks if a string looks like a valid YouTube playlist ID
func IsValidPlaylistID(id string) bool {
	// Common playlist prefixes: PL, UU, FL, RD, etc.
	playlistPrefixes := []string{"PL", "UU", "FL", "RD", "LP", "BP", "QL", "SV", "EL", "LL", "UC"}

	// Check for standard prefixes with appropriate lengths
	for _, prefix := range playlistPrefixes {
		if strings.HasPrefix(id, prefix) {
			// Standard playlist IDs are typically 16, 32, or 34 characters
			if len(id) == 18 || len(id) == 34 || len(id) == 36 {
				matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
				return matched
			}
		}
	}

	// Check for music playlists (OLAK5uy_, RDCLAK5uy_)
	if strings.HasPrefix(id, "OLAK5uy_") || strings.HasPrefix(id, "RDCLAK5uy_") {
		if len(id) == 40 {
			matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
			return matched
		}
	}

	return false
}

// getPlaylistID extracts playlist ID from YouTube URLs
func getPlaylistID(youtubeURL string) (string, error) {
	youtubeURL = strings.TrimSpace(youtubeURL)
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	if u.Host != "www.youtube.com" && u.Host != "youtube.com" {
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if list := u.Query().Get("list"); list != "" {
		if IsValidPlaylistID(list) {
			return list, nil
		}
		return "", fmt.Errorf("invalid playlist ID format: %s", list)
	}

	return "", fmt.Errorf("could not extract playlist ID from URL: %s", youtubeURL)
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	// Check for common file path indicators
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	// Check for common file extensions
	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// If it's longer than 200 characters, it's likely a template string
	if len(s) > 200 {
		return false
	}

	// Default to treating as file path if it doesn't contain spaces and newlines
	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}

// humanDuration formats seconds as m:ss or h:mm:ss.
func humanDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// formatUploadDate renders a YYYYMMDD provider date as YYYY-MM-DD.
func formatUploadDate(date string) string {
	if NormalizeUploadDate(date) == "" {
		return ""
	}
	return date[:4] + "-" + date[4:6] + "-" + date[6:]
}

// groupDigits formats a count with thousands separators.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if n < 0 || len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		sb.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
