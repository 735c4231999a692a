package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// App holds the application state and dependencies
type App struct {
	youtube   *YouTube
	lister    ChannelLister
	audio     *Audio
	ai        *AI
	templates *TemplateManager
	config    *Config
	ui        UIManager

	mu           sync.Mutex
	channels     *ChannelStore
	transcripts  *TranscriptStore
	synchronizer *Synchronizer
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	runner := &DefaultCommandRunner{}

	audio := NewAudio(runner, config.TempDir, config.Verbose)
	ui := NewUIManager(config.Verbose, config.Quiet)
	youtube := NewYouTube(runner, config.YtdlpPath, config.AudioDir, config.Verbose)

	app := &App{
		youtube:   youtube,
		lister:    youtube,
		audio:     audio,
		ai:        NewAIWithKey(config.OpenAIAPIKey, audio, WhisperLimit, config.WhisperTimeout, config.Verbose),
		templates: NewTemplateManager(config.Template),
		config:    config,
		ui:        ui,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithYouTube sets a custom YouTube downloader
func WithYouTube(youtube *YouTube) AppOption {
	return func(a *App) {
		a.youtube = youtube
		a.lister = youtube
	}
}

// WithLister sets a custom channel listing provider
func WithLister(lister ChannelLister) AppOption {
	return func(a *App) {
		a.lister = lister
	}
}

// WithAudio sets a custom audio processor
func WithAudio(audio *Audio) AppOption {
	return func(a *App) {
		a.audio = audio
	}
}

// WithAI sets a custom AI processor
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// Config returns the application configuration.
func (app *App) Config() *Config { return app.config }

// UI returns the application's UI manager.
func (app *App) UI() UIManager { return app.ui }

// SetTemplate replaces the output template, typically from a flag.
func (app *App) SetTemplate(setting string) {
	app.templates = NewTemplateManager(setting)
}

// Synchronizer returns the channel cache synchronizer, opening the
// channel store (and taking its file lock) on first use.
func (app *App) Synchronizer() (*Synchronizer, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.synchronizer != nil {
		return app.synchronizer, nil
	}
	if app.channels == nil {
		store, err := OpenChannelStore(app.config.ChannelCacheFile)
		if err != nil {
			return nil, fmt.Errorf("opening channel cache: %w", err)
		}
		app.channels = store
	}
	app.synchronizer = NewSynchronizer(app.lister, app.channels, app.ui)
	return app.synchronizer, nil
}

// Transcripts returns the transcript store, opening it (and taking its
// file lock) on first use.
func (app *App) Transcripts() (*TranscriptStore, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.transcripts == nil {
		store, err := OpenTranscriptStore(app.config.TranscriptCacheFile)
		if err != nil {
			return nil, fmt.Errorf("opening transcript cache: %w", err)
		}
		app.transcripts = store
	}
	return app.transcripts, nil
}

// Close releases any stores the app opened.
func (app *App) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	var errs []error
	if app.channels != nil {
		errs = append(errs, app.channels.Close())
		app.channels = nil
		app.synchronizer = nil
	}
	if app.transcripts != nil {
		errs = append(errs, app.transcripts.Close())
		app.transcripts = nil
	}
	return errors.Join(errs...)
}

// SearchVideos searches YouTube and returns up to limit results.
func (app *App) SearchVideos(ctx context.Context, query string, limit int) ([]VideoRecord, error) {
	if limit <= 0 {
		limit = app.config.SearchLimit
	}

	spinner := app.ui.NewSpinner("Searching YouTube...")
	videos, err := app.youtube.Search(ctx, query, limit)
	spinner.Finish()
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}
	return videos, nil
}

// ChannelVideos returns a channel's videos through the cache
// synchronizer. A failed cache write degrades to a warning; the listing
// is still returned.
func (app *App) ChannelVideos(ctx context.Context, channelURL string, opts SyncOptions) ([]VideoRecord, error) {
	syncer, err := app.Synchronizer()
	if err != nil {
		return nil, err
	}

	spinner := app.ui.NewSpinner("Syncing channel videos...")
	videos, err := syncer.Sync(ctx, channelURL, opts)
	spinner.Finish()

	var writeErr *CacheWriteError
	if errors.As(err, &writeErr) {
		app.ui.Warning("could not persist channel cache: %v", writeErr)
		return videos, nil
	}
	return videos, err
}

// VideoInfo fetches a video's metadata, optionally with its transcript.
// A transcript failure is reported as a warning rather than discarding
// the metadata.
func (app *App) VideoInfo(ctx context.Context, youtubeURL string, withTranscript, assumeYes bool) (*VideoMetadata, string, error) {
	spinner := app.ui.NewSpinner("Fetching video metadata...")
	metadata, err := app.youtube.Metadata(ctx, youtubeURL)
	spinner.Finish()
	if err != nil {
		return nil, "", err
	}

	var transcript string
	if withTranscript {
		transcript, err = app.Transcript(ctx, youtubeURL, assumeYes)
		if err != nil {
			app.ui.Warning("transcript unavailable: %v", err)
			transcript = ""
		}
	}
	return metadata, transcript, nil
}

// Transcript returns the transcript for a video: cached when possible,
// otherwise transcribed with Whisper after user confirmation (skipped
// with assumeYes) and stored for next time.
func (app *App) Transcript(ctx context.Context, youtubeURL string, assumeYes bool) (string, error) {
	_, videoID := ParseArg(youtubeURL)

	store, err := app.Transcripts()
	if err != nil {
		return "", err
	}

	if text, ok := store.Lookup(videoID); ok {
		app.ui.Verbose("Using cached transcript for %s\n", videoID)
		return text, nil
	}

	if !assumeYes {
		if !AskUser(fmt.Sprintf("No cached transcript for %s. Transcribe with OpenAI Whisper ($$$)?", videoID)) {
			return "", fmt.Errorf("transcription declined by user")
		}
	}

	transcript, err := app.transcribeVideo(ctx, youtubeURL)
	if err != nil {
		return "", err
	}

	if err := store.Put(videoID, transcript); err != nil {
		app.ui.Warning("could not cache transcript: %v", err)
	}
	return transcript, nil
}

// transcribeVideo downloads a video's audio and runs it through Whisper.
func (app *App) transcribeVideo(ctx context.Context, youtubeURL string) (string, error) {
	spinner := app.ui.NewSpinner("Downloading audio...")

	audioFile, err := app.DownloadAudio(ctx, youtubeURL)
	if err != nil {
		spinner.Finish()
		return "", err
	}

	spinner.Describe("Transcribing with OpenAI Whisper...")
	spinner.Advance()

	transcript, err := app.ai.Transcribe(ctx, audioFile)
	if err != nil {
		spinner.Finish()
		return "", err
	}

	spinner.Describe("Transcription complete")
	spinner.Finish()
	return transcript, nil
}

// VideoTranscript holds one transcription result
type VideoTranscript struct {
	URL        string
	VideoID    string
	Transcript string
	Cached     bool
}

// TranscribeVideos obtains transcripts for a set of URLs, serving cached
// ones and transcribing the rest. It returns the successful results in
// input order plus a description of each skipped video.
func (app *App) TranscribeVideos(ctx context.Context, urls []string, assumeYes bool) ([]VideoTranscript, []string, error) {
	store, err := app.Transcripts()
	if err != nil {
		return nil, nil, err
	}

	bar := app.ui.NewSharedProgressBar(len(urls), "Transcribing videos")

	var results []VideoTranscript
	var skipped []string

	for i, youtubeURL := range urls {
		bar.Set(i)
		_, videoID := ParseArg(youtubeURL)

		if text, ok := store.Lookup(videoID); ok {
			app.ui.Verbose("Using cached transcript for %s\n", videoID)
			results = append(results, VideoTranscript{
				URL:        youtubeURL,
				VideoID:    videoID,
				Transcript: text,
				Cached:     true,
			})
			continue
		}

		if !assumeYes {
			// Clear progress bar line before showing user prompt
			fmt.Print("\r\033[K")
			if !AskUser(fmt.Sprintf("Video %d (%s) has no cached transcript. Use Whisper ($$$)?", i+1, videoID)) {
				skipped = append(skipped, fmt.Sprintf("%s (declined)", videoID))
				continue
			}
		}

		transcript, err := app.transcribeVideo(ctx, youtubeURL)
		if err != nil {
			app.ui.Warning("could not transcribe %s: %v", youtubeURL, err)
			skipped = append(skipped, fmt.Sprintf("%s (%v)", videoID, err))
			continue
		}

		if err := store.Put(videoID, transcript); err != nil {
			app.ui.Warning("could not cache transcript: %v", err)
		}
		results = append(results, VideoTranscript{
			URL:        youtubeURL,
			VideoID:    videoID,
			Transcript: transcript,
		})
	}

	bar.Finish()
	return results, skipped, nil
}

// DownloadAudio downloads audio from a YouTube URL and returns the file path
func (app *App) DownloadAudio(ctx context.Context, youtubeURL string) (string, error) {
	if err := EnsureDirs(app.config.CacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	audioFile, err := app.youtube.Audio(ctx, youtubeURL)
	if err != nil {
		return "", fmt.Errorf("downloading audio: %w", err)
	}

	return audioFile, nil
}

// RenderVideoList renders records for the terminal: as JSON when asked,
// through the custom template when configured, and otherwise as
// markdown, styled when stdout is a TTY.
func (app *App) RenderVideoList(videos []VideoRecord, asJSON bool) (string, error) {
	if asJSON {
		return RecordsJSON(videos)
	}
	if app.templates.Configured() {
		return app.templates.RenderRecords(videos)
	}

	md := FormatVideoList(videos)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return RenderMarkdown(md)
	}
	return md, nil
}

// RenderInfo renders video metadata (and optional transcript) the same
// way.
func (app *App) RenderInfo(metadata *VideoMetadata, transcript string) (string, error) {
	md := FormatVideoInfo(metadata, transcript)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return RenderMarkdown(md)
	}
	return md, nil
}
