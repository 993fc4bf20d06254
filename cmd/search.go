package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/bookrec/internal/dataset"
	"github.com/lehigh-university-libraries/bookrec/internal/search"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var directory string
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search book titles without starting a session",
		Long: `Searches the book metadata dump by fuzzy title match and prints the
ranked results. Only the books file is loaded, so this works without the
interaction files.`,
		Example: `  bookrec search "the hobbit"
  bookrec search dune --top 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Loading catalog", "directory", directory)

			loader := dataset.NewLoader(directory)
			cat, err := loader.LoadCatalog()
			if err != nil {
				return err
			}

			engine := search.NewEngine(cat)
			hits := engine.Search(args[0], topK)
			if len(hits) == 0 {
				fmt.Println("No matching titles.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tRATINGS\tAVG")
			for _, h := range hits {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", h.Book.ID, h.Book.Title, h.Book.RatingsCount, h.Book.AverageRating)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory containing the dataset files")
	cmd.Flags().IntVar(&topK, "top", 10, "Maximum number of results")

	return cmd
}
