package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoRecordValidate(t *testing.T) {
	assert.NoError(t, VideoRecord{ID: "dQw4w9WgXcQ"}.Validate())
	assert.ErrorContains(t, VideoRecord{Title: "No ID"}.Validate(), "missing id")
}

func TestNormalizeUploadDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20230105", "20230105"},
		{"2023-01-05", ""},
		{"202301", ""},
		{"2023010501", ""},
		{"2023010a", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUploadDate(tt.in), "NormalizeUploadDate(%q)", tt.in)
	}
}

func TestLatestUploadDate(t *testing.T) {
	entry := ChannelCacheEntry{Videos: []VideoRecord{
		{ID: "a", UploadDate: "20230110"},
		{ID: "b", UploadDate: "20230312"},
		{ID: "c"},
		{ID: "d", UploadDate: "20221231"},
	}}

	assert.Equal(t, "20230312", entry.LatestUploadDate())
	assert.Equal(t, "", ChannelCacheEntry{}.LatestUploadDate())
}

func TestContentTypeString(t *testing.T) {
	assert.Equal(t, "video", ContentTypeVideo.String())
	assert.Equal(t, "playlist", ContentTypePlaylist.String())
	assert.Equal(t, "channel", ContentTypeChannel.String())
	assert.Equal(t, "command", ContentTypeCommand.String())
	assert.Equal(t, "unknown", ContentTypeUnknown.String())
}

func TestParsedArgIsValid(t *testing.T) {
	assert.True(t, ClassifyArg("dQw4w9WgXcQ").IsValid())
	assert.True(t, ClassifyArg("https://www.youtube.com/@testchannel").IsValid())
	assert.False(t, ClassifyArg("chanel").IsValid())
	assert.False(t, ClassifyArg("not a video url").IsValid())
}
