package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytkit/internal"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search YouTube videos",
	Long: `Search YouTube and print the matching videos.

Results come straight from YouTube and are not cached. The default
number of results is taken from the config (search_limit).`,
	Example: `  # Search with the default result count
  ytkit search "go concurrency patterns"

  # Return at most 5 results as JSON
  ytkit search -n 5 --json "rust vs go"

  # Render results through a custom template
  ytkit search -t "{{.Title}} ({{.URL}})" "database internals"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		app := internal.NewApp(config)
		defer app.Close()

		if err := internal.HandleTemplateFlag(cmd, app); err != nil {
			return err
		}

		videos, err := app.SearchVideos(cmd.Context(), query, limit)
		if err != nil {
			if errors.Is(err, internal.ErrNoResults) {
				fmt.Printf("No videos found for %q.\n", query)
				return nil
			}
			return err
		}

		out, err := app.RenderVideoList(videos, asJSON)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "Maximum number of results (0 uses the configured default)")
	internal.AddOutputFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
