package cmd

import (
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/bookrec/internal/dataset"
	"github.com/lehigh-university-libraries/bookrec/internal/recommend"
	"github.com/lehigh-university-libraries/bookrec/internal/search"
	"github.com/lehigh-university-libraries/bookrec/internal/shell"
	"github.com/spf13/cobra"
)

func newRecommendCmd() *cobra.Command {
	var directory string
	var minSupport int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Start an interactive recommendation session",
		Long: `Starts an interactive session over the dataset directory.

The directory must contain the book metadata dump (goodreads_books.json.gz,
or a .jsonl/.parquet conversion), book_id_map.csv, and
goodreads_interactions.csv. Search for books you like, add them to your
list, and ask for recommendations; recommended books can be fed back into
the list to refine the next round.`,
		Example: `  # Use data files in the current directory
  bookrec recommend

  # Use a dedicated data directory
  bookrec recommend --directory ~/goodreads-data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Loading dataset", "directory", directory)

			loader := dataset.NewLoader(directory)
			cat, ix, err := loader.Load()
			if err != nil {
				return err
			}

			slog.Info("Building search index")
			searcher := search.NewEngine(cat)
			engine := recommend.NewEngine(cat, ix, minSupport)

			sh := shell.New(directory, cat, searcher, engine, os.Stdin, os.Stdout)
			return sh.Run()
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory containing the dataset files")
	cmd.Flags().IntVar(&minSupport, "min-support", 1, "Minimum cohort members liking a book before it can be recommended")

	return cmd
}
