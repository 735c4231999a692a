package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ytkit/internal"
)

// runChannelListing syncs a channel's cached listing and prints it. A
// provider failure is diagnosed on stderr instead of aborting, matching
// the behavior of the other listing surfaces.
func runChannelListing(cmd *cobra.Command, app *internal.App, channelURL string, opts internal.SyncOptions, asJSON bool) error {
	videos, err := app.ChannelVideos(cmd.Context(), channelURL, opts)
	if err != nil {
		var fetchErr *internal.FetchError
		if !errors.As(err, &fetchErr) {
			return err
		}
		app.UI().Warning("%v", fetchErr)
	}

	if len(videos) == 0 {
		fmt.Println("No videos found for this channel.")
		return nil
	}

	out, err := app.RenderVideoList(videos, asJSON)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
