package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantURL string
		wantID  string
	}{
		{
			name:    "watch URL",
			arg:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID:  "dQw4w9WgXcQ",
		},
		{
			name:    "short URL",
			arg:     "https://youtu.be/dQw4w9WgXcQ",
			wantURL: "https://youtu.be/dQw4w9WgXcQ",
			wantID:  "dQw4w9WgXcQ",
		},
		{
			name:    "bare video ID",
			arg:     "dQw4w9WgXcQ",
			wantURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID:  "dQw4w9WgXcQ",
		},
		{
			name:    "watch URL with playlist keeps the video",
			arg:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL0123456789abcdef",
			wantURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL0123456789abcdef",
			wantID:  "dQw4w9WgXcQ",
		},
		{
			name:    "playlist URL",
			arg:     "https://www.youtube.com/playlist?list=PL0123456789abcdef",
			wantURL: "https://www.youtube.com/playlist?list=PL0123456789abcdef",
			wantID:  "PL0123456789abcdef",
		},
		{
			name:    "bare playlist ID",
			arg:     "PL0123456789abcdef",
			wantURL: "https://www.youtube.com/playlist?list=PL0123456789abcdef",
			wantID:  "PL0123456789abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, gotID := ParseArg(tt.arg)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}

func TestClassifyArg(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantType ContentType
		wantURL  string
		wantErr  bool
	}{
		{
			name:     "channel handle URL",
			arg:      "https://www.youtube.com/@testchannel",
			wantType: ContentTypeChannel,
			wantURL:  "https://www.youtube.com/@testchannel/videos",
		},
		{
			name:     "channel ID URL",
			arg:      "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw",
			wantType: ContentTypeChannel,
			wantURL:  "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw/videos",
		},
		{
			name:     "watch URL",
			arg:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantType: ContentTypeVideo,
			wantURL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:     "bare video ID",
			arg:      "dQw4w9WgXcQ",
			wantType: ContentTypeVideo,
			wantURL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:     "playlist URL",
			arg:      "https://www.youtube.com/playlist?list=PL0123456789abcdef",
			wantType: ContentTypePlaylist,
			wantURL:  "https://www.youtube.com/playlist?list=PL0123456789abcdef",
		},
		{
			name:     "bare playlist ID",
			arg:      "PL0123456789abcdef",
			wantType: ContentTypePlaylist,
			wantURL:  "https://www.youtube.com/playlist?list=PL0123456789abcdef",
		},
		{
			name:     "mistyped command",
			arg:      "chanel",
			wantType: ContentTypeCommand,
		},
		{
			name:     "unrecognizable input",
			arg:      "hello world",
			wantType: ContentTypeUnknown,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ClassifyArg(tt.arg)
			assert.Equal(t, tt.wantType, p.ContentType)
			if tt.wantURL != "" {
				assert.Equal(t, tt.wantURL, p.NormalizedURL)
			}
			if tt.wantErr {
				assert.Error(t, p.Error)
			} else {
				assert.NoError(t, p.Error)
			}
		})
	}
}

func TestParsedArgSuggestCorrection(t *testing.T) {
	commands := []string{"search", "channel", "info", "transcribe", "mcp", "help"}

	p := ClassifyArg("chan")
	assert.Equal(t, ContentTypeCommand, p.ContentType)
	assert.Contains(t, p.SuggestCorrection(commands), "channel")

	p = ClassifyArg("xyzqw")
	assert.Equal(t, "use --help to see available commands", p.SuggestCorrection(commands))

	// Non-command args get no suggestion
	p = ClassifyArg("dQw4w9WgXcQ")
	assert.Empty(t, p.SuggestCorrection(commands))
}

func TestIsChannelURL(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"https://www.youtube.com/@testchannel", true},
		{"https://www.youtube.com/channel/UC123", true},
		{"https://www.youtube.com/c/TestChannel", true},
		{"https://www.youtube.com/user/testuser", true},
		{"https://www.youtube.com/@testchannel/videos", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"https://www.youtube.com/playlist?list=PL123", false},
		{"https://example.com/@someone", false},
		{"dQw4w9WgXcQ", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, IsChannelURL(tt.arg))
		})
	}
}

func TestParseURLSet(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{
			name: "trims and keeps order",
			csv:  " a , b ,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "drops duplicates",
			csv:  "a,b,a,c,b",
			want: []string{"a", "b", "c"},
		},
		{
			name: "skips empty items",
			csv:  ",a,,b,",
			want: []string{"a", "b"},
		},
		{
			name: "empty input",
			csv:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseURLSet(tt.csv))
		})
	}
}

func TestIsValidYouTubeID(t *testing.T) {
	assert.True(t, IsValidYouTubeID("dQw4w9WgXcQ"))
	assert.True(t, IsValidYouTubeID("abc-def_123"))
	assert.False(t, IsValidYouTubeID("too-short"))
	assert.False(t, IsValidYouTubeID("way-too-long-for-an-id"))
	assert.False(t, IsValidYouTubeID("has space!!"))
}

func TestIsValidPlaylistID(t *testing.T) {
	assert.True(t, IsValidPlaylistID("PL0123456789abcdef"))
	assert.False(t, IsValidPlaylistID("PL123"))
	assert.False(t, IsValidPlaylistID("dQw4w9WgXcQ"))
	assert.False(t, IsValidPlaylistID("XX0123456789abcdef"))
}

func TestIsLikelyCommand(t *testing.T) {
	assert.True(t, IsLikelyCommand("mcp"))
	assert.True(t, IsLikelyCommand("chanel"))
	assert.False(t, IsLikelyCommand("dQw4w9WgXcQ"))
	assert.False(t, IsLikelyCommand("PL0123456789abcdef"))
	assert.False(t, IsLikelyCommand("a-very-long-argument"))
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{212, "3:32"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanDuration(tt.seconds))
	}
}

func TestFormatUploadDate(t *testing.T) {
	assert.Equal(t, "2023-01-05", formatUploadDate("20230105"))
	assert.Equal(t, "", formatUploadDate("2023-01-05"))
	assert.Equal(t, "", formatUploadDate(""))
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-5000, "-5000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, groupDigits(tt.n))
	}
}

func TestValidateOpenAIAPIKey(t *testing.T) {
	assert.Error(t, ValidateOpenAIAPIKey(""))
	assert.NoError(t, ValidateOpenAIAPIKey("sk-test123"))
}
