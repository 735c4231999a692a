package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenAIClient returns canned transcription results in call order.
type fakeOpenAIClient struct {
	texts    []string
	err      error
	failCall int // 0-based call index that returns err
	calls    int
}

func (f *fakeOpenAIClient) CreateTranscription(context.Context, *os.File) (string, error) {
	i := f.calls
	f.calls++
	if f.err != nil && i == f.failCall {
		return "", f.err
	}
	if i < len(f.texts) {
		return f.texts[i], nil
	}
	return "", nil
}

func writeTestAudio(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestAITranscribeSingleFile(t *testing.T) {
	client := &fakeOpenAIClient{texts: []string{"hello from whisper"}}
	ai := NewAI(client, nil, 1<<20, 0, false)
	path := writeTestAudio(t, "audio.mp3", 100)

	got, err := ai.Transcribe(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "hello from whisper", got)
	assert.Equal(t, 1, client.calls)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "audio file should be removed after transcription")
}

func TestAITranscribeMissingAPIKey(t *testing.T) {
	ai := NewAIWithKey("", nil, 1<<20, 0, false)

	_, err := ai.Transcribe(context.Background(), "unused.mp3")

	assert.ErrorContains(t, err, "OpenAI API key is required")
}

func TestAITranscribeMissingFile(t *testing.T) {
	client := &fakeOpenAIClient{}
	ai := NewAI(client, nil, 1<<20, 0, false)

	_, err := ai.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))

	assert.ErrorContains(t, err, "getting audio file info")
	assert.Zero(t, client.calls)
}

func TestAITranscribeClientError(t *testing.T) {
	client := &fakeOpenAIClient{err: errors.New("rate limited")}
	ai := NewAI(client, nil, 1<<20, 0, false)
	path := writeTestAudio(t, "audio.mp3", 100)

	_, err := ai.Transcribe(context.Background(), path)

	assert.ErrorContains(t, err, "transcribing audio")
	assert.ErrorContains(t, err, "rate limited")

	// Cleanup runs even when transcription fails
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessAudioChunks(t *testing.T) {
	client := &fakeOpenAIClient{texts: []string{"part one", "part two", "part three"}}
	ai := NewAI(client, nil, 1<<20, 0, false)

	dir := t.TempDir()
	var chunks []string
	for _, name := range []string{"chunk1.mp3", "chunk2.mp3", "chunk3.mp3"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
		chunks = append(chunks, path)
	}

	got, err := ai.processAudioChunks(context.Background(), chunks)

	require.NoError(t, err)
	assert.Equal(t, "part one\npart two\npart three", got)
	assert.Equal(t, 3, client.calls)
}

func TestProcessAudioChunksFailure(t *testing.T) {
	client := &fakeOpenAIClient{err: errors.New("server error"), failCall: 1}
	ai := NewAI(client, nil, 1<<20, 0, false)

	dir := t.TempDir()
	var chunks []string
	for _, name := range []string{"chunk1.mp3", "chunk2.mp3"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
		chunks = append(chunks, path)
	}

	_, err := ai.processAudioChunks(context.Background(), chunks)

	assert.ErrorContains(t, err, "transcribing chunk 2")
	assert.ErrorContains(t, err, "server error")
}
