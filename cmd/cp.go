package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"ytkit/internal"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp <YouTube URL or ID>",
	Short: "Copy a video's transcript to the clipboard",
	Example: `  # Copy a cached transcript to the clipboard
  ytkit cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytkit cp tAP1eZYEuKA

  # Transcribe with Whisper without asking (costs money)
  ytkit cp tAP1eZYEuKA --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		youtubeURL, _ := internal.ParseArg(args[0])

		app := internal.NewApp(config)
		defer app.Close()

		transcript, err := app.Transcript(cmd.Context(), youtubeURL, yes)
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(transcript); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	cpCmd.Flags().BoolP("yes", "y", false, "Transcribe without asking for confirmation")
	rootCmd.AddCommand(cpCmd)
}
