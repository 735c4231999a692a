package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ytkit/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytkit [YouTube URL, video ID, or channel URL]",
	Short: "YouTube toolkit - search, channel listings, and transcripts",
	Long: `YTKit collects YouTube metadata and transcripts from the command line.

Channel listings are cached on disk and synchronized incrementally, so
repeated lookups return instantly and only new uploads are fetched.
Transcripts are produced with OpenAI Whisper and cached as well.`,
	Example: `  # Show metadata for a video (default behavior)
  ytkit "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytkit tAP1eZYEuKA

  # List a channel's videos (cached after the first run)
  ytkit "https://www.youtube.com/@GoogleDevelopers"

  # Search YouTube
  ytkit search "go concurrency patterns"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleVerboseFlag(cmd, config); err != nil {
			return err
		}
		return internal.HandleQuietFlag(cmd, config)
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		// Validate argument before processing
		parsed := internal.ClassifyArg(args[0])
		if parsed.ContentType == internal.ContentTypeCommand {
			availableCommands := []string{"search", "channel", "info", "transcribe", "audio", "cp", "mcp", "paths", "version", "help"}
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. %s", args[0], parsed.SuggestCorrection(availableCommands))
		}
		if parsed.Error != nil {
			return parsed.Error
		}

		app := internal.NewApp(config)
		defer app.Close()

		switch parsed.ContentType {
		case internal.ContentTypeChannel:
			return runChannelListing(cmd, app, parsed.NormalizedURL, internal.SyncOptions{FetchOnlyNew: true}, false)
		case internal.ContentTypeVideo:
			metadata, _, err := app.VideoInfo(cmd.Context(), parsed.NormalizedURL, false, false)
			if err != nil {
				return err
			}
			out, err := app.RenderInfo(metadata, "")
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		default:
			return fmt.Errorf("playlists are not supported; pass a video or channel URL")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Cleaning up and shutting down...")

		// Cancel the main context to signal all operations to stop
		cancel()

		// Create a context with timeout for cleanup operations
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		// Run cleanup with timeout context
		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupTempDir(config.TempDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		// Wait for either cleanup to complete or timeout
		select {
		case <-cleanupDone:
			// Cleanup completed successfully
		case <-cleanupCtx.Done():
			// Timeout occurred
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		// Exit the program
		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytkit/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}
