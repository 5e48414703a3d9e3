package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd runs the interactive board; subcommands give one-shot access
// for scripts.
func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "Terminal client for the todo board",
		Args:          cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return opts.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			opts.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "todo service base URL (default $TODO_API_URL or http://localhost:3011)")
	flags.StringVar(&opts.prefsFile, "prefs", "", "preferences file (default $TODO_PREFS_FILE)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default $TODO_LOG_FILE)")

	rootCmd.AddCommand(
		newListCommand(opts),
		newAddCommand(opts),
		newStarCommand(opts),
		newStatsCommand(opts),
		newTagsCommand(opts),
	)
	return rootCmd
}
