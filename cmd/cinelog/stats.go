package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/stats"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Viewing statistics",
	}
	cmd.AddCommand(statsOverviewCmd())
	cmd.AddCommand(statsGenresCmd())
	cmd.AddCommand(statsRatingsCmd())
	cmd.AddCommand(statsMonthlyCmd())
	cmd.AddCommand(statsTopCmd())
	cmd.AddCommand(statsWatchlistCmd())
	return cmd
}

// loadStats reads every viewing, most recent first, and the film index
func loadStats(cmd *cobra.Command) ([]domain.ViewingEvent, stats.Films, error) {
	s, err := getStore()
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	return stats.Collect(cmd.Context(), s, domain.ViewingFilter{})
}

func statsOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Totals, averages and favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, films, err := loadStats(cmd)
			if err != nil {
				return err
			}

			o := stats.ComputeOverview(events, films)
			fmt.Printf("Films watched:     %d\n", o.TotalFilms)
			fmt.Printf("Viewings:          %d (%d rewatches, %.1f%%)\n", o.TotalViewings, o.RewatchCount, o.RewatchPercentage)
			fmt.Printf("Average rating:    %.2f over %d rated\n", o.AverageRating, o.TotalRatedCount)
			fmt.Printf("Watch time:        %dh%02dm (estimated)\n", o.EstimatedWatchTimeMinutes/60, o.EstimatedWatchTimeMinutes%60)
			fmt.Printf("Viewings / month:  %.2f\n", o.AverageViewingsPerMonth)
			if o.MostWatchedGenre != nil {
				fmt.Printf("Top genre:         %s\n", *o.MostWatchedGenre)
			}
			if o.FavoriteDecade != nil {
				fmt.Printf("Favorite decade:   %ds\n", *o.FavoriteDecade)
			}
			return nil
		},
	}
}

func statsGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "Viewings per genre",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, films, err := loadStats(cmd)
			if err != nil {
				return err
			}

			genres := stats.Genres(events, films)
			if len(genres) == 0 {
				fmt.Println("No genre data yet.")
				return nil
			}
			for _, g := range genres {
				fmt.Printf("%-20s %4d  %5.1f%%  avg %.2f\n", truncate(g.Genre, 20), g.Count, g.Percentage, g.AverageRating)
			}
			return nil
		},
	}
}

func statsRatingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratings",
		Short: "Rating distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, _, err := loadStats(cmd)
			if err != nil {
				return err
			}

			for _, b := range stats.RatingDistribution(events) {
				fmt.Printf("%s  %4d  %5.1f%%  %s\n", stars(b.Rating), b.Count, b.Percentage, strings.Repeat("#", int(b.Percentage/2)))
			}
			return nil
		},
	}
}

func statsMonthlyCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Viewings per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, _, err := loadStats(cmd)
			if err != nil {
				return err
			}
			l := displayLanguage()

			if cmd.Flags().Changed("year") {
				for i, n := range stats.MonthlyCounts(events, year) {
					fmt.Printf("%-10s %4d\n", stats.MonthName(time.Month(i+1), l), n)
				}
				return nil
			}

			months := stats.Monthly(events, l)
			if len(months) == 0 {
				fmt.Println("No viewings yet.")
				return nil
			}
			for _, m := range months {
				fmt.Printf("%d %-10s %4d  avg %.2f\n", m.Year, m.Label, m.ViewingCount, m.AverageRating)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "show every month of this year")
	return cmd
}

func statsTopCmd() *cobra.Command {
	var (
		by    string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Top rated or most watched films",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, films, err := loadStats(cmd)
			if err != nil {
				return err
			}

			var ranked []stats.RankedFilm
			switch by {
			case "rating":
				ranked = stats.TopRated(events, films, limit)
			case "views":
				ranked = stats.MostWatched(events, films, limit)
			default:
				return fmt.Errorf("--by must be rating or views, got %q", by)
			}

			for i, r := range ranked {
				fmt.Printf("%2d. %-40s %.2f  %3dx\n", i+1, truncate(filmLabel(&r.Film), 40), r.AverageRating, r.ViewingCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "rating", "rank by rating or views")
	cmd.Flags().IntVarP(&limit, "limit", "n", stats.DefaultTopLimit, "number of films")
	return cmd
}

func statsWatchlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.AllWatchlistEntries(cmd.Context())
			if err != nil {
				return err
			}

			w := stats.Watchlist(entries, time.Now())
			fmt.Printf("Entries:  %d (high %d, medium %d, low %d)\n", w.Total, w.HighPriority, w.MediumPriority, w.LowPriority)
			fmt.Printf("Waiting:  %.1f days on average\n", w.AverageDaysInWatchlist)
			return nil
		},
	}
}
