package main

import (
	"fmt"
	"time"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/watchlist"
	"github.com/spf13/cobra"
)

func watchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage films to watch later",
	}
	cmd.AddCommand(watchlistAddCmd())
	cmd.AddCommand(watchlistFilmCmd("remove", "Remove a film from the watchlist", func(cmd *cobra.Command, repo domain.Repository, f *domain.Film) error {
		n, err := watchlist.Remove(cmd.Context(), repo, f)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Printf("%s was not on the watchlist\n", f.Title)
			return nil
		}
		fmt.Printf("Removed %s from the watchlist\n", f.Title)
		return nil
	}))
	cmd.AddCommand(watchlistFilmCmd("toggle", "Add a film if absent, remove it if present", func(cmd *cobra.Command, repo domain.Repository, f *domain.Film) error {
		listed, err := watchlist.Toggle(cmd.Context(), repo, f)
		if err != nil {
			return err
		}
		if listed {
			fmt.Printf("Added %s to the watchlist\n", f.Title)
		} else {
			fmt.Printf("Removed %s from the watchlist\n", f.Title)
		}
		return nil
	}))
	cmd.AddCommand(watchlistListCmd())
	cmd.AddCommand(watchlistPriorityCmd())
	cmd.AddCommand(watchlistDoneCmd())
	cmd.AddCommand(watchlistClearCmd())
	return cmd
}

// watchlistFilmCmd builds a command that acts on one film
func watchlistFilmCmd(use, short string, run func(*cobra.Command, domain.Repository, *domain.Film) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [film]",
		Short: short,
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
			return run(cmd, s, f)
		},
	}
}

func watchlistAddCmd() *cobra.Command {
	var priority string

	cmd := watchlistFilmCmd("add", "Add a film to the watchlist", func(cmd *cobra.Command, repo domain.Repository, f *domain.Film) error {
		p, err := domain.ParsePriority(priority)
		if err != nil {
			return err
		}
		e, err := watchlist.Add(cmd.Context(), repo, f, p)
		if err != nil {
			return err
		}
		fmt.Printf("%s is on the watchlist (%s priority)\n", f.Title, e.Priority.Title())
		return nil
	})

	cmd.Flags().StringVarP(&priority, "priority", "p", string(domain.PriorityMedium), "high, medium or low")
	return cmd
}

func watchlistPriorityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priority [film] [high|medium|low]",
		Short: "Change the priority of a listed film",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePriority(args[1])
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := findFilm(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			if _, err := watchlist.UpdatePriority(cmd.Context(), s, f, p); err != nil {
				return err
			}
			fmt.Printf("%s is now %s priority\n", f.Title, p.Title())
			return nil
		},
	}
}

func watchlistDoneCmd() *cobra.Command {
	var rating int

	cmd := watchlistFilmCmd("done", "Remove a film from the watchlist and record a viewing now", func(cmd *cobra.Command, repo domain.Repository, f *domain.Film) error {
		v, err := watchlist.MarkAsWatched(cmd.Context(), repo, f, rating, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Watched %s  %s\n", f.Title, stars(v.Rating))
		return nil
	})

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.MarkFlagRequired("rating")
	return cmd
}

func watchlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the watchlist, highest priority first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := watchlist.List(cmd.Context(), s)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Watchlist is empty. Use 'cinelog watchlist add' to add a film.")
				return nil
			}

			films, err := s.AllFilms(cmd.Context())
			if err != nil {
				return err
			}
			byID := make(map[string]*domain.Film, len(films))
			for i := range films {
				byID[films[i].ID] = &films[i]
			}

			for _, e := range entries {
				title := "(deleted film)"
				if f, ok := byID[e.FilmID]; ok {
					title = filmLabel(f)
				}
				fmt.Printf("%-6s  %s  %s\n", e.Priority.Title(), e.AddedAt.Local().Format(time.DateOnly), truncate(title, 60))
			}
			return nil
		},
	}
}

func watchlistClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every watchlist entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := watchlist.Clear(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d entries\n", n)
			return nil
		},
	}
}
