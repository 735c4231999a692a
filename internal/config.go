package internal

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner. It returns stdout only,
// folding stderr into the error, so JSON-producing commands stay
// parseable.
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// Config holds application settings
type Config struct {
	// User configurable settings
	ChannelCacheFile    string
	TranscriptCacheFile string
	SearchLimit         int
	FetchTimeout        time.Duration
	WhisperTimeout      time.Duration
	Template            string
	Verbose             bool
	Quiet               bool
	MCPLogEnabled       bool
	OpenAIAPIKey        string

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
	AudioDir  string
	TempDir   string

	// Resolved yt-dlp binary for listing invocations
	YtdlpPath string
}

//go:embed config.toml
var defaultFS embed.FS

// WhisperLimit is the maximum file size accepted by OpenAI's Whisper API (25 MiB)
const WhisperLimit int64 = 25 << 20

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is available; keep the resolved binary for the
	// listing invocations that shell out directly.
	var ytdlpPath string
	if res, err := ytdlp.Install(context.Background(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not provision yt-dlp: %v\n", err)
	} else if res != nil {
		ytdlpPath = res.Executable
	}

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "ytkit")
	dataDir := filepath.Join(xdg.DataHome, "ytkit")
	cacheDir := filepath.Join(xdg.CacheHome, "ytkit")

	// directories for downloaded audio and temp chunks
	audioDir := filepath.Join(cacheDir, "audio")
	tempDir := filepath.Join(cacheDir, "temp_chunks")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("channel_cache_file", filepath.Join(dataDir, "channel_cache.json"))
	v.SetDefault("transcript_cache_file", filepath.Join(dataDir, "transcripts_cache.json"))
	v.SetDefault("search_limit", 10)
	v.SetDefault("fetch_timeout", 2*time.Minute)
	v.SetDefault("whisper_timeout", 10*time.Minute)
	v.SetDefault("template", "") // if empty will use the built-in listing format
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", true)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("YTKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("_", "_"))

	// Special case for OpenAI API Key - check both Viper and direct env var
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		// User configurable settings
		ChannelCacheFile:    v.GetString("channel_cache_file"),
		TranscriptCacheFile: v.GetString("transcript_cache_file"),
		SearchLimit:         v.GetInt("search_limit"),
		FetchTimeout:        v.GetDuration("fetch_timeout"),
		WhisperTimeout:      v.GetDuration("whisper_timeout"),
		Template:            v.GetString("template"),
		Verbose:             v.GetBool("verbose"),
		Quiet:               v.GetBool("quiet"),
		MCPLogEnabled:       v.GetBool("mcp_log"),
		OpenAIAPIKey:        v.GetString("openai_api_key"),

		// Fixed XDG paths
		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
		AudioDir:  audioDir,
		TempDir:   tempDir,

		YtdlpPath: ytdlpPath,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
