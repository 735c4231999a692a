package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytkit/internal"
)

// audioCmd represents the audio command
var audioCmd = &cobra.Command{
	Use:   "audio <YouTube URL or ID>",
	Short: "Download a video's audio as mp3",
	Example: `  # Download audio and print the file path
  ytkit audio "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytkit audio tAP1eZYEuKA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		youtubeURL, _ := internal.ParseArg(args[0])

		app := internal.NewApp(config)
		defer app.Close()

		audioFile, err := app.DownloadAudio(cmd.Context(), youtubeURL)
		if err != nil {
			return err
		}

		fmt.Println(audioFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(audioCmd)
}
