package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var (
		rating    int
		at        string
		notes     string
		location  string
		companion string
	)

	cmd := &cobra.Command{
		Use:   "watch [film]",
		Short: "Record a viewing of a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := journal.Viewing{
				ViewedAt:  time.Now(),
				Rating:    rating,
				Notes:     optional(notes),
				Location:  optional(location),
				Companion: optional(companion),
			}
			if at != "" {
				t, err := journal.ParseDate(at, false)
				if err != nil {
					return err
				}
				in.ViewedAt = t
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var (
				f *domain.Film
				v *domain.ViewingEvent
			)
			err = s.InTx(cmd.Context(), func(tx domain.Repository) error {
				var err error
				if f, err = findFilm(cmd.Context(), tx, args[0]); err != nil {
					return err
				}
				v, err = journal.RecordViewing(cmd.Context(), tx, f, in)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Printf("Recorded viewing %s of %s\n", shortID(v.ID), f.Title)
			if v.IsRewatch {
				fmt.Printf("Rewatch #%d\n", v.Sequence)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&at, "at", "", "viewing date (YYYY-MM-DD or RFC 3339, default now)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&location, "location", "", "where it was watched")
	cmd.Flags().StringVar(&companion, "with", "", "who it was watched with")
	cmd.MarkFlagRequired("rating")
	return cmd
}

func viewingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewing",
		Short: "Browse and edit recorded viewings",
	}
	cmd.AddCommand(viewingListCmd())
	cmd.AddCommand(viewingUpdateCmd())
	cmd.AddCommand(viewingDeleteCmd())
	return cmd
}

func viewingListCmd() *cobra.Command {
	var (
		film   string
		from   string
		to     string
		rating int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List viewings, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			filter := domain.ViewingFilter{Limit: limit}
			if film != "" {
				f, err := findFilm(cmd.Context(), s, film)
				if err != nil {
					return err
				}
				filter.FilmID = f.ID
			}
			if from != "" {
				t, err := journal.ParseDate(from, false)
				if err != nil {
					return err
				}
				filter.From = &t
			}
			if to != "" {
				t, err := journal.ParseDate(to, true)
				if err != nil {
					return err
				}
				filter.To = &t
			}
			if cmd.Flags().Changed("rating") {
				filter.Rating = &rating
			}

			viewings, err := journal.List(cmd.Context(), s, filter)
			if err != nil {
				return err
			}
			if len(viewings) == 0 {
				fmt.Println("No viewings found.")
				return nil
			}

			films, err := s.AllFilms(cmd.Context())
			if err != nil {
				return err
			}
			titles := make(map[string]string, len(films))
			for _, f := range films {
				titles[f.ID] = f.Title
			}

			for _, v := range viewings {
				printViewing(v, titles[v.FilmID])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&film, "film", "", "only viewings of this film")
	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "only viewings with this rating")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of viewings to show (0 for all)")
	return cmd
}

func viewingUpdateCmd() *cobra.Command {
	var (
		rating    int
		at        string
		notes     string
		location  string
		companion string
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change a viewing's date, rating, notes, location or companion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u domain.ViewingUpdate
			flags := cmd.Flags()
			if flags.Changed("rating") {
				u.Rating = &rating
			}
			if flags.Changed("at") {
				t, err := journal.ParseDate(at, false)
				if err != nil {
					return err
				}
				u.ViewedAt = &t
			}
			if flags.Changed("notes") {
				u.Notes = &notes
			}
			if flags.Changed("location") {
				u.Location = &location
			}
			if flags.Changed("with") {
				u.Companion = &companion
			}
			if u.IsEmpty() {
				return fmt.Errorf("nothing to update")
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := findViewingID(cmd, s, args[0])
			if err != nil {
				return err
			}

			v, err := journal.UpdateViewing(cmd.Context(), s, id, u)
			if err != nil {
				return err
			}
			printViewing(*v, "")
			return nil
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&at, "at", "", "viewing date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&location, "location", "", "where it was watched")
	cmd.Flags().StringVar(&companion, "with", "", "who it was watched with")
	return cmd
}

func viewingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a viewing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := findViewingID(cmd, s, args[0])
			if err != nil {
				return err
			}
			if err := journal.DeleteViewing(cmd.Context(), s, id); err != nil {
				return err
			}
			fmt.Printf("Deleted viewing %s\n", shortID(id))
			return nil
		},
	}
}

// findViewingID expands an id prefix to a full viewing id
func findViewingID(cmd *cobra.Command, repo domain.Repository, prefix string) (string, error) {
	viewings, err := journal.List(cmd.Context(), repo, domain.ViewingFilter{})
	if err != nil {
		return "", err
	}

	var found string
	for _, v := range viewings {
		if !strings.HasPrefix(v.ID, prefix) {
			continue
		}
		if found != "" {
			return "", fmt.Errorf("viewing id %q is ambiguous", prefix)
		}
		found = v.ID
	}
	if found == "" {
		return "", fmt.Errorf("viewing %s: %w", prefix, domain.ErrNotFound)
	}
	return found, nil
}

func printViewing(v domain.ViewingEvent, title string) {
	line := fmt.Sprintf("%s  %s  %s  #%d", shortID(v.ID), v.ViewedAt.Local().Format(time.DateOnly), stars(v.Rating), v.Sequence)
	if title != "" {
		line += "  " + truncate(title, 40)
	}
	if v.Companion != nil {
		line += "  with " + *v.Companion
	}
	if v.Location != nil {
		line += "  at " + *v.Location
	}
	fmt.Println(line)
	if v.Notes != nil {
		fmt.Printf("          %s\n", truncate(*v.Notes, 70))
	}
}
