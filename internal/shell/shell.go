// Package shell runs the interactive search-pick-recommend loop. It owns
// no algorithmic logic; it dispatches to the search and recommendation
// engines and keeps the session's liked-book set up to date.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
	"github.com/lehigh-university-libraries/bookrec/internal/recommend"
	"github.com/lehigh-university-libraries/bookrec/internal/results"
	"github.com/lehigh-university-libraries/bookrec/internal/search"
)

const topResults = 10

// Shell wires the engines to an input/output stream pair. Tests drive it
// with scripted readers.
type Shell struct {
	dir      string
	cat      *catalog.Catalog
	searcher *search.Engine
	engine   *recommend.Engine
	session  *recommend.Session
	in       *bufio.Scanner
	out      io.Writer
	lastRecs []recommend.Recommendation
}

// New creates a shell bound to the given engines and streams.
func New(dir string, cat *catalog.Catalog, searcher *search.Engine, engine *recommend.Engine, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		dir:      dir,
		cat:      cat,
		searcher: searcher,
		engine:   engine,
		session:  recommend.NewSession(cat),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run reads commands until quit or EOF. In-session errors are reported and
// recovered; only the reader failing ends the loop with an error.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "Type 'help' for commands.")
	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(s.out)
			return nil
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "search":
			s.handleSearch(arg)
		case "add":
			s.handleAdd(arg)
		case "remove":
			s.handleRemove(arg)
		case "list":
			s.handleList()
		case "recs":
			s.handleRecs()
		case "export":
			s.handleExport(arg)
		case "reset":
			s.session.Reset()
			s.lastRecs = nil
			fmt.Fprintln(s.out, "Liked books cleared.")
		case "help":
			s.printHelp()
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", cmd)
		}
	}
}

func (s *Shell) handleSearch(query string) {
	if query == "" {
		fmt.Fprintln(s.out, "Usage: search <title>")
		return
	}
	hits := s.searcher.Search(query, topResults)
	if len(hits) == 0 {
		fmt.Fprintln(s.out, "No matching titles.")
		return
	}

	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRATINGS\tAVG")
	for _, h := range hits {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", h.Book.ID, h.Book.Title, h.Book.RatingsCount, h.Book.AverageRating)
	}
	w.Flush()
	fmt.Fprintln(s.out, "Use 'add <id>' to like a book.")
}

func (s *Shell) handleAdd(id string) {
	if id == "" {
		fmt.Fprintln(s.out, "Usage: add <book id>")
		return
	}
	if err := s.session.Add(id); err != nil {
		if errors.Is(err, recommend.ErrUnknownBook) {
			fmt.Fprintf(s.out, "No book with id %q in the catalog.\n", id)
			return
		}
		fmt.Fprintf(s.out, "Could not add %q: %v\n", id, err)
		return
	}
	book, _ := s.cat.Get(id)
	fmt.Fprintf(s.out, "Added %q (%d liked).\n", book.Title, s.session.Len())
}

func (s *Shell) handleRemove(id string) {
	if id == "" {
		fmt.Fprintln(s.out, "Usage: remove <book id>")
		return
	}
	if !s.session.Remove(id) {
		fmt.Fprintf(s.out, "Book %q is not in your liked list.\n", id)
		return
	}
	fmt.Fprintf(s.out, "Removed %s (%d liked).\n", id, s.session.Len())
}

func (s *Shell) handleList() {
	ids := s.session.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(s.out, "No liked books yet. Use 'search <title>' to find some.")
		return
	}
	for _, id := range ids {
		book, _ := s.cat.Get(id)
		fmt.Fprintf(s.out, "%s  %s\n", id, book.Title)
	}
}

func (s *Shell) handleRecs() {
	recs := s.engine.Recommend(s.session.Snapshot(), topResults)
	if len(recs) == 0 {
		fmt.Fprintln(s.out, "No recommendations. Like a few books first, or try different ones.")
		return
	}
	s.lastRecs = recs

	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSCORE\tCOHORT")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%d/%d\n", r.Book.ID, r.Book.Title, r.Score, r.CohortCount, r.CohortSize)
	}
	w.Flush()
	fmt.Fprintln(s.out, "Use 'add <id>' to feed a recommendation back into your liked list.")
}

func (s *Shell) handleExport(format string) {
	if len(s.lastRecs) == 0 {
		fmt.Fprintln(s.out, "Nothing to export. Run 'recs' first.")
		return
	}
	if format == "" {
		format = "yaml"
	}
	run := results.NewRun(s.dir, s.session.IDs(), s.lastRecs)
	path, err := results.Save(run, format)
	if err != nil {
		fmt.Fprintf(s.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Results saved to %s\n", path)
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  search <title>   find books by fuzzy title match
  add <id>         add a book to your liked list
  remove <id>      remove a book from your liked list
  list             show your liked books
  recs             recommend books based on your liked list
  export [format]  save the last recommendations (yaml or json)
  reset            clear your liked list
  quit             exit
`)
}
