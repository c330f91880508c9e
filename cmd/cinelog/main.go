package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pbaille/cinelog/internal/api"
	"github.com/pbaille/cinelog/internal/config"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/pbaille/cinelog/internal/stats"
	"github.com/pbaille/cinelog/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var (
	dbPath string
	lang   string
	cfg    *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cinelog",
		Short:        "Movie viewing journal and watchlist",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(".env")
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.DBPath
			}
			if lang == "" {
				lang = cfg.Language
			}
			return logger.Init(logger.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				File:   cfg.LogFile,
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default ~/.cinelog/cinelog.db)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "display language for genres and months (en, ja)")

	rootCmd.AddCommand(filmCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(viewingCmd())
	rootCmd.AddCommand(watchlistCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	return store.New(dbPath)
}

func displayLanguage() language.Tag {
	return stats.ParseLanguage(lang)
}

// findFilm resolves a TMDB id or an id prefix to a stored film
func findFilm(ctx context.Context, repo domain.Repository, ref string) (*domain.Film, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		f, err := repo.FilmByExternalID(ctx, n)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return f, err
		}
	}

	films, err := repo.AllFilms(ctx)
	if err != nil {
		return nil, err
	}

	var found *domain.Film
	for i := range films {
		if !strings.HasPrefix(films[i].ID, ref) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("film id %q is ambiguous", ref)
		}
		found = &films[i]
	}
	if found == nil {
		return nil, fmt.Errorf("film %s: %w", ref, domain.ErrNotFound)
	}
	return found, nil
}

func stars(rating int) string {
	if !domain.ValidRating(rating) {
		return fmt.Sprintf("(%d)", rating)
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", domain.MaxRating-rating)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			// Note: don't defer s.Close() as server runs indefinitely

			if addr == "" {
				addr = cfg.Addr
			}
			server := api.New(s, addr, displayLanguage())
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default :8080)")
	return cmd
}
