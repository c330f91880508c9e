package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pbaille/cinelog/internal/catalog"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
	"github.com/pbaille/cinelog/internal/watchlist"
	"github.com/spf13/cobra"
)

func filmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "film",
		Short: "Manage films",
	}
	cmd.AddCommand(filmAddCmd())
	cmd.AddCommand(filmImportCmd())
	cmd.AddCommand(filmListCmd())
	cmd.AddCommand(filmShowCmd())
	cmd.AddCommand(filmDeleteCmd())
	return cmd
}

func filmAddCmd() *cobra.Command {
	var (
		tmdbID   int
		release  string
		overview string
		director string
		genres   []string
		cast     []string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a film by hand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tmdbID <= 0 {
				return fmt.Errorf("--tmdb-id is required")
			}

			f := domain.Film{
				ExternalID: tmdbID,
				Title:      strings.Join(args, " "),
				Overview:   optional(overview),
				Director:   optional(director),
				Genres:     genres,
				Cast:       cast,
			}
			if release != "" {
				t, err := time.Parse(time.DateOnly, release)
				if err != nil {
					return fmt.Errorf("invalid release date %q: use YYYY-MM-DD", release)
				}
				f.ReleaseDate = &t
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if existing, err := s.FilmByExternalID(cmd.Context(), tmdbID); err == nil {
				fmt.Printf("Already in journal: %s  %s\n", shortID(existing.ID), existing.Title)
				return nil
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}

			if err := s.InsertFilm(cmd.Context(), &f); err != nil {
				return err
			}
			fmt.Printf("Added film: %s  %s\n", shortID(f.ID), f.Title)
			return nil
		},
	}

	cmd.Flags().IntVar(&tmdbID, "tmdb-id", 0, "TMDB movie id")
	cmd.Flags().StringVar(&release, "release", "", "release date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&overview, "overview", "", "plot summary")
	cmd.Flags().StringVar(&director, "director", "", "director name")
	cmd.Flags().StringSliceVarP(&genres, "genre", "g", nil, "genre (repeatable)")
	cmd.Flags().StringSliceVar(&cast, "cast", nil, "cast member (repeatable)")
	return cmd
}

func filmImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import films from a TMDB movie or search JSON document (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			movies, err := catalog.Decode(r)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			imported, err := catalog.Import(cmd.Context(), s, movies, displayLanguage())
			for _, im := range imported {
				mark := "+"
				if im.Existing {
					mark = "="
				}
				fmt.Printf("  %s %s  %s\n", mark, shortID(im.Film.ID), im.Film.Title)
			}
			return err
		},
	}
}

func filmListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List films in the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			films, err := s.AllFilms(cmd.Context())
			if err != nil {
				return err
			}

			if len(films) == 0 {
				fmt.Println("No films yet. Use 'cinelog film add' or 'cinelog film import'.")
				return nil
			}

			for _, f := range films {
				avg := "  -  "
				if a, ok := f.AverageRating(); ok {
					avg = fmt.Sprintf("%.1f", a)
				}
				fmt.Printf("%s  %-5s %3dx  %s\n", shortID(f.ID), avg, f.TotalViewings(), truncate(filmLabel(&f), 60))
			}
			return nil
		},
	}
}

func filmShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [film]",
		Short: "Show film details and viewing history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := findFilm(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:       %s\n", f.ID)
			fmt.Printf("TMDB:     %d\n", f.ExternalID)
			fmt.Printf("Title:    %s\n", filmLabel(f))
			if f.Director != nil {
				fmt.Printf("Director: %s\n", *f.Director)
			}
			if len(f.Genres) > 0 {
				fmt.Printf("Genres:   %s\n", strings.Join(f.Genres, ", "))
			}
			if len(f.Cast) > 0 {
				fmt.Printf("Cast:     %s\n", strings.Join(f.Cast, ", "))
			}
			if a, ok := f.AverageRating(); ok {
				fmt.Printf("Average:  %.1f\n", a)
			}
			if e, err := watchlist.Entry(cmd.Context(), s, f); err != nil {
				return err
			} else if e != nil {
				fmt.Printf("Watchlist: %s priority\n", e.Priority.Title())
			}
			if f.Overview != nil {
				fmt.Printf("\n%s\n", *f.Overview)
			}

			if len(f.Viewings) > 0 {
				fmt.Printf("\nViewings:\n")
				for _, v := range f.Viewings {
					printViewing(v, "")
				}
			}
			return nil
		},
	}
}

func filmDeleteCmd() *cobra.Command {
	var viewingsOnly bool

	cmd := &cobra.Command{
		Use:   "delete [film]",
		Short: "Delete a film and its viewings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := findFilm(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			if viewingsOnly {
				n, err := journal.DeleteAllViewings(cmd.Context(), s, f)
				if err != nil {
					return err
				}
				fmt.Printf("Deleted %d viewings of %s\n", n, f.Title)
				return nil
			}

			if err := s.DeleteFilm(cmd.Context(), f.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted film: %s\n", f.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&viewingsOnly, "viewings", false, "only delete the film's viewings")
	return cmd
}

func filmLabel(f *domain.Film) string {
	if y := f.ReleaseYear(); y != 0 {
		return fmt.Sprintf("%s (%d)", f.Title, y)
	}
	return f.Title
}
