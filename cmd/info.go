package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ytkit/internal"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <YouTube URL or ID>",
	Short: "Show metadata for a video",
	Long: `Show metadata for a YouTube video: title, channel, duration, upload
date, view count, and whether captions exist.

With --transcript the video's transcript is included. Transcripts are
served from the local cache when possible; otherwise the audio is
transcribed with OpenAI Whisper, which costs money and therefore asks
for confirmation first (skip the prompt with --yes).`,
	Example: `  # Show video metadata
  ytkit info "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Include the transcript, transcribing without asking if needed
  ytkit info --transcript --yes tAP1eZYEuKA

  # Machine-readable output
  ytkit info --json tAP1eZYEuKA

  # Save pretty-printed JSON to a file
  ytkit info --json --pretty -o video.json tAP1eZYEuKA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withTranscript, _ := cmd.Flags().GetBool("transcript")
		yes, _ := cmd.Flags().GetBool("yes")
		asJSON, _ := cmd.Flags().GetBool("json")
		pretty, _ := cmd.Flags().GetBool("pretty")
		output, _ := cmd.Flags().GetString("output")

		youtubeURL, _ := internal.ParseArg(args[0])

		app := internal.NewApp(config)
		defer app.Close()

		metadata, transcript, err := app.VideoInfo(cmd.Context(), youtubeURL, withTranscript, yes)
		if err != nil {
			return err
		}

		var out string
		if asJSON || pretty {
			payload := struct {
				*internal.VideoMetadata
				Transcript string `json:"transcript,omitempty"`
			}{metadata, transcript}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(payload, "", "  ")
			} else {
				data, err = json.Marshal(payload)
			}
			if err != nil {
				return fmt.Errorf("marshaling video info: %w", err)
			}
			out = string(data)
		} else {
			out, err = app.RenderInfo(metadata, transcript)
			if err != nil {
				return err
			}
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(out+"\n"), 0644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			if !config.Quiet {
				fmt.Printf("Video info written to %s\n", output)
			}
			return nil
		}

		fmt.Println(out)
		return nil
	},
}

func init() {
	infoCmd.Flags().Bool("transcript", false, "Include the video transcript")
	infoCmd.Flags().BoolP("yes", "y", false, "Transcribe without asking for confirmation")
	infoCmd.Flags().Bool("json", false, "Output as JSON")
	infoCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
	infoCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	rootCmd.AddCommand(infoCmd)
}
