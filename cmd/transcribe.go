package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ytkit/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe <YouTube URL or ID>...",
	Short: "Transcribe videos with OpenAI Whisper",
	Long: `Transcribe one or more YouTube videos.

Cached transcripts are served from disk. For the rest the audio is
downloaded and transcribed with OpenAI Whisper, which costs money and
therefore asks for confirmation per video (skip the prompts with
--yes). New transcripts are cached for next time.`,
	Example: `  # Transcribe a single video
  ytkit transcribe "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Several at once, without confirmation prompts
  ytkit transcribe --yes tAP1eZYEuKA dQw4w9WgXcQ

  # Comma-separated lists work too
  ytkit transcribe --yes "tAP1eZYEuKA,dQw4w9WgXcQ"

  # Save the transcript to a file
  ytkit transcribe -o transcript.txt tAP1eZYEuKA`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		output, _ := cmd.Flags().GetString("output")

		// Accept both separate arguments and comma-separated lists.
		urls := internal.ParseURLSet(strings.Join(args, ","))
		for i, u := range urls {
			normalized, _ := internal.ParseArg(u)
			urls[i] = normalized
		}

		// Unattended runs should fail on a missing API key before any
		// audio is downloaded.
		if yes {
			if err := internal.ValidateOpenAIRequirements(config); err != nil {
				return err
			}
		}

		app := internal.NewApp(config)
		defer app.Close()

		results, skipped, err := app.TranscribeVideos(cmd.Context(), urls, yes)
		if err != nil {
			return err
		}
		if len(skipped) > 0 {
			app.UI().Warning("skipped %d video(s): %s", len(skipped), strings.Join(skipped, "; "))
		}
		if len(results) == 0 {
			fmt.Println("No transcripts produced.")
			return nil
		}

		var b strings.Builder
		for i, vt := range results {
			if len(results) > 1 {
				if i > 0 {
					b.WriteString("\n\n")
				}
				fmt.Fprintf(&b, "=== %s ===\n", vt.URL)
			}
			b.WriteString(vt.Transcript)
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(b.String()+"\n"), 0644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			if !config.Quiet {
				fmt.Printf("Transcript written to %s\n", output)
			}
			return nil
		}

		fmt.Println(b.String())
		return nil
	},
}

func init() {
	transcribeCmd.Flags().BoolP("yes", "y", false, "Transcribe without asking for confirmation")
	transcribeCmd.Flags().StringP("output", "o", "", "Write transcripts to a file instead of stdout")
	rootCmd.AddCommand(transcribeCmd)
}
