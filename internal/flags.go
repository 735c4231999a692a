package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddSyncFlags adds the cache synchronization flags used by channel listings
func AddSyncFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of videos to return (0 returns all)")
	cmd.Flags().Bool("force", false, "Refetch the full listing even when cached")
	cmd.Flags().Bool("new", true, "Fetch only videos newer than the cache and append them")
	cmd.Flags().String("cache-file", "", "Override the channel cache file location")
}

// SyncOptionsFromFlags builds sync options from a command's flags
func SyncOptionsFromFlags(cmd *cobra.Command) (SyncOptions, error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return SyncOptions{}, fmt.Errorf("failed to get limit flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return SyncOptions{}, fmt.Errorf("failed to get force flag: %w", err)
	}
	fetchNew, err := cmd.Flags().GetBool("new")
	if err != nil {
		return SyncOptions{}, fmt.Errorf("failed to get new flag: %w", err)
	}
	return SyncOptions{Limit: limit, ForceUpdate: force, FetchOnlyNew: fetchNew}, nil
}

// AddOutputFlags adds the listing output flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output records as JSON")
	cmd.Flags().StringP("template", "t", "", "Output template (Go template string or file path)")
}

// HandleTemplateFlag processes the --template flag to set a custom output template
func HandleTemplateFlag(cmd *cobra.Command, app *App) error {
	// Check if template flag was explicitly set
	templateFlag := cmd.Flags().Lookup("template")
	if templateFlag == nil || !templateFlag.Changed {
		return nil
	}

	setting, err := cmd.Flags().GetString("template")
	if err != nil {
		return fmt.Errorf("failed to get template flag: %w", err)
	}

	// If template is empty, nothing to do
	if setting == "" {
		return nil
	}

	app.SetTemplate(setting)

	// Check if it's a file path or a template string for verbose output
	if IsLikelyFilePath(setting) && FileExists(setting) {
		app.ui.Verbose("Using custom template file: %s\n", setting)
	} else {
		app.ui.Verbose("Using custom template string\n")
	}

	return nil
}

// HandleCacheFileFlag lets the --cache-file flag override the channel cache location
func HandleCacheFileFlag(cmd *cobra.Command, app *App) error {
	flag := cmd.Flags().Lookup("cache-file")
	if flag == nil || !flag.Changed {
		return nil
	}

	path, err := cmd.Flags().GetString("cache-file")
	if err != nil {
		return fmt.Errorf("failed to get cache-file flag: %w", err)
	}
	if path != "" {
		app.config.ChannelCacheFile = path
	}
	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// HandleQuietFlag processes the --quiet flag to update config
func HandleQuietFlag(cmd *cobra.Command, config *Config) error {
	flag := cmd.Flags().Lookup("quiet")
	if flag == nil {
		return nil
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Quiet = quiet
	return nil
}

// ValidateOpenAIRequirements validates the OpenAI API key from config
func ValidateOpenAIRequirements(config *Config) error {
	return ValidateOpenAIAPIKey(config.OpenAIAPIKey)
}
