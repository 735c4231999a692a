package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytkit/internal"
)

// channelCmd represents the channel command
var channelCmd = &cobra.Command{
	Use:   "channel <channel URL>",
	Short: "List a channel's videos using the local cache",
	Long: `List the videos of a YouTube channel, newest first.

The listing is cached on disk. By default only videos newer than the
cached ones are fetched and appended, so repeat runs are fast and cheap.
Use --force to refetch the full listing, or --new=false to serve the
cache without touching the network at all.`,
	Example: `  # List a channel (incremental sync, the default)
  ytkit channel "https://www.youtube.com/@GoogleDevelopers"

  # Handles work too
  ytkit channel @GoogleDevelopers

  # Newest 10 videos as JSON
  ytkit channel -n 10 --json "https://www.youtube.com/@GoogleDevelopers"

  # Refetch everything, replacing the cached listing
  ytkit channel --force "https://www.youtube.com/@GoogleDevelopers"

  # Offline: serve whatever is cached
  ytkit channel --new=false "https://www.youtube.com/@GoogleDevelopers"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := args[0]
		if strings.HasPrefix(arg, "@") {
			arg = "https://www.youtube.com/" + arg
		}
		if !internal.IsChannelURL(arg) {
			return fmt.Errorf("'%s' doesn't look like a YouTube channel URL", args[0])
		}
		// Normalized so the root dispatch and this command share cache entries
		arg = internal.NormalizeChannelURL(arg)

		opts, err := internal.SyncOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		app := internal.NewApp(config)
		defer app.Close()

		if err := internal.HandleCacheFileFlag(cmd, app); err != nil {
			return err
		}
		if err := internal.HandleTemplateFlag(cmd, app); err != nil {
			return err
		}

		return runChannelListing(cmd, app, arg, opts, asJSON)
	},
}

func init() {
	internal.AddSyncFlags(channelCmd)
	internal.AddOutputFlags(channelCmd)
	rootCmd.AddCommand(channelCmd)
}
