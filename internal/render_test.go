package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingFixture() []VideoRecord {
	return []VideoRecord{
		{
			ID:         "dQw4w9WgXcQ",
			Title:      "First Video",
			URL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Duration:   212,
			UploadDate: "20230105",
			ViewCount:  1234567,
		},
		{
			ID:    "test123abc_",
			Title: "Second Video",
			URL:   "https://www.youtube.com/watch?v=test123abc_",
		},
	}
}

func TestFormatVideoList(t *testing.T) {
	got := FormatVideoList(listingFixture())

	want := "1. **First Video**\n" +
		"   https://www.youtube.com/watch?v=dQw4w9WgXcQ\n" +
		"   2023-01-05 | 3:32 | 1,234,567 views\n" +
		"2. **Second Video**\n" +
		"   https://www.youtube.com/watch?v=test123abc_\n"
	assert.Equal(t, want, got)
}

func TestFormatVideoListEmpty(t *testing.T) {
	assert.Equal(t, "", FormatVideoList(nil))
}

func TestFormatVideoInfo(t *testing.T) {
	metadata := &VideoMetadata{
		ID:          "dQw4w9WgXcQ",
		Title:       "Test Video",
		Channel:     "Test Channel",
		UploadDate:  "20230105",
		Duration:    212,
		ViewCount:   1000000,
		LikeCount:   5000,
		Categories:  []string{"Music"},
		Tags:        []string{"test", "video"},
		HasCaptions: true,
		Description: "A test description.",
	}

	got := FormatVideoInfo(metadata, "")

	assert.Contains(t, got, "# Test Video\n")
	assert.Contains(t, got, "- **Channel**: Test Channel\n")
	assert.Contains(t, got, "- **Uploaded**: 2023-01-05\n")
	assert.Contains(t, got, "- **Duration**: 3:32\n")
	assert.Contains(t, got, "- **Views**: 1,000,000\n")
	assert.Contains(t, got, "- **Likes**: 5,000\n")
	assert.Contains(t, got, "- **Categories**: Music\n")
	assert.Contains(t, got, "- **Tags**: test, video\n")
	assert.Contains(t, got, "- **Captions available**: true\n")
	assert.Contains(t, got, "## Description\n\nA test description.\n")
	assert.NotContains(t, got, "## Transcript")
}

func TestFormatVideoInfoWithTranscript(t *testing.T) {
	metadata := &VideoMetadata{Title: "Test Video", Uploader: "someone"}

	got := FormatVideoInfo(metadata, "the transcript text")

	// Uploader is the fallback when the channel name is missing
	assert.Contains(t, got, "- **Uploader**: someone\n")
	assert.Contains(t, got, "## Transcript\n\nthe transcript text\n")
}

func TestFormatVideoInfoTruncation(t *testing.T) {
	longDesc := make([]byte, 600)
	for i := range longDesc {
		longDesc[i] = 'd'
	}
	tags := make([]string, 15)
	for i := range tags {
		tags[i] = "tag"
	}
	metadata := &VideoMetadata{Title: "Long", Description: string(longDesc), Tags: tags}

	got := FormatVideoInfo(metadata, "")

	assert.Contains(t, got, string(longDesc[:500])+"...")
	assert.NotContains(t, got, string(longDesc[:501]))
	assert.Contains(t, got, "- **Tags**: tag, tag, tag, tag, tag, tag, tag, tag, tag, tag\n")
}

func TestTemplateManagerInlineString(t *testing.T) {
	tm := NewTemplateManager("{{.ID}}: {{.Title}}")
	require.True(t, tm.Configured())

	got, err := tm.RenderRecords(listingFixture())

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ: First Video\ntest123abc_: Second Video", got)
}

func TestTemplateManagerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.URL}}\n"), 0o644))

	tm := NewTemplateManager(path)
	require.True(t, tm.Configured())

	got, err := tm.RenderRecords(listingFixture()[:1])

	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", got)
}

func TestTemplateManagerUnconfigured(t *testing.T) {
	assert.False(t, NewTemplateManager("").Configured())
}

func TestTemplateManagerParseError(t *testing.T) {
	tm := NewTemplateManager("{{.Title")

	_, err := tm.RenderRecords(listingFixture())

	assert.ErrorContains(t, err, "parsing output template")
}

func TestTemplateManagerBadField(t *testing.T) {
	tm := NewTemplateManager("{{.NoSuchField}}")

	_, err := tm.RenderRecords(listingFixture())

	assert.ErrorContains(t, err, "executing output template")
}

func TestRecordsJSON(t *testing.T) {
	got, err := RecordsJSON(listingFixture())
	require.NoError(t, err)

	var decoded []VideoRecord
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, listingFixture(), decoded)
	assert.Contains(t, got, "\n  ", "output should be indented")
}
