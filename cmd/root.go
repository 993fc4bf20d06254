package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bookrec",
		Short: "Book recommendations from your Goodreads-style dataset",
		Long: `Bookrec recommends books based on a list of books you like.

It searches a locally stored book metadata dump by fuzzy title match, lets
you build up a liked-book list, and recommends what users with similar
taste also liked. All computation happens in memory over the dataset
directory; nothing is fetched or persisted.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}
