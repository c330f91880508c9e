package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
)

const watchlistColumns = "id, film_id, added_at, priority, notes"

// InsertWatchlistEntry stores an entry, assigning an id and add time when missing
func (s *queries) InsertWatchlistEntry(ctx context.Context, e *domain.WatchlistEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = s.now()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO watchlist ("+watchlistColumns+") VALUES (?, ?, ?, ?, ?)",
		e.ID, nullableID(e.FilmID), e.AddedAt.UTC(), string(e.Priority), e.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert watchlist entry: %w", err)
	}

	logger.Get().WithFields(logrus.Fields{
		"entry_id": e.ID,
		"film_id":  e.FilmID,
		"priority": e.Priority,
	}).Info("Added to watchlist")
	return nil
}

// UpdateWatchlistEntry overwrites priority and notes
func (s *queries) UpdateWatchlistEntry(ctx context.Context, e *domain.WatchlistEntry) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE watchlist SET priority = ?, notes = ? WHERE id = ?",
		string(e.Priority), e.Notes, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update watchlist entry: %w", err)
	}
	return checkAffected(res, "watchlist entry "+e.ID)
}

// WatchlistEntriesForFilm returns the entries referencing a film, oldest first
func (s *queries) WatchlistEntriesForFilm(ctx context.Context, filmID string) ([]domain.WatchlistEntry, error) {
	return s.listWatchlist(ctx,
		"SELECT "+watchlistColumns+" FROM watchlist WHERE film_id = ? ORDER BY added_at, rowid", filmID)
}

// DeleteWatchlistEntriesForFilm removes every entry referencing a film
func (s *queries) DeleteWatchlistEntriesForFilm(ctx context.Context, filmID string) (int64, error) {
	return s.deleteWatchlist(ctx, "DELETE FROM watchlist WHERE film_id = ?", filmID)
}

// DeleteAllWatchlistEntries empties the watchlist
func (s *queries) DeleteAllWatchlistEntries(ctx context.Context) (int64, error) {
	return s.deleteWatchlist(ctx, "DELETE FROM watchlist")
}

// AllWatchlistEntries returns every entry in insertion order
func (s *queries) AllWatchlistEntries(ctx context.Context) ([]domain.WatchlistEntry, error) {
	return s.listWatchlist(ctx, "SELECT "+watchlistColumns+" FROM watchlist ORDER BY rowid")
}

func (s *queries) listWatchlist(ctx context.Context, query string, args ...any) ([]domain.WatchlistEntry, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchlistEntry
	for rows.Next() {
		var (
			e             domain.WatchlistEntry
			filmID, notes sql.NullString
			priority      string
		)
		if err := rows.Scan(&e.ID, &filmID, &e.AddedAt, &priority, &notes); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		e.FilmID = filmID.String
		e.Priority = domain.Priority(priority)
		e.Notes = nullString(notes)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	return entries, nil
}

func (s *queries) deleteWatchlist(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete watchlist entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
