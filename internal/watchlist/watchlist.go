// Package watchlist keeps the list of films to watch later, at most one entry per film.
package watchlist

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
)

// Add puts film on the watchlist with priority. It is a no-op returning the
// existing entry when the film is already listed.
func Add(ctx context.Context, repo domain.Repository, film *domain.Film, priority domain.Priority) (*domain.WatchlistEntry, error) {
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("add to watchlist: %w: %q", domain.ErrInvalidPriority, priority)
	}

	existing, err := Entry(ctx, repo, film)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	e := &domain.WatchlistEntry{FilmID: film.ID, Priority: priority}
	if err := repo.InsertWatchlistEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("add to watchlist: %w", err)
	}
	return e, nil
}

// Remove deletes every entry referencing film and returns how many went
func Remove(ctx context.Context, repo domain.Repository, film *domain.Film) (int64, error) {
	n, err := repo.DeleteWatchlistEntriesForFilm(ctx, film.ID)
	if err != nil {
		return 0, fmt.Errorf("remove from watchlist: %w", err)
	}
	if n > 1 {
		logger.Get().WithFields(logrus.Fields{
			"film_id": film.ID,
			"entries": n,
		}).Warn("Removed duplicate watchlist entries")
	}
	return n, nil
}

// Toggle adds film when absent and removes it when present.
// It reports whether the film is listed afterwards.
func Toggle(ctx context.Context, repo domain.Repository, film *domain.Film) (bool, error) {
	listed, err := Contains(ctx, repo, film)
	if err != nil {
		return false, err
	}
	if listed {
		_, err := Remove(ctx, repo, film)
		return false, err
	}
	_, err = Add(ctx, repo, film, domain.PriorityMedium)
	return err == nil, err
}

// Contains reports whether film has a watchlist entry
func Contains(ctx context.Context, repo domain.Repository, film *domain.Film) (bool, error) {
	e, err := Entry(ctx, repo, film)
	return e != nil, err
}

// Entry returns film's watchlist entry, or nil when it has none
func Entry(ctx context.Context, repo domain.Repository, film *domain.Film) (*domain.WatchlistEntry, error) {
	entries, err := repo.WatchlistEntriesForFilm(ctx, film.ID)
	if err != nil {
		return nil, fmt.Errorf("find watchlist entry: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// List returns all entries, highest priority first and newest first within a priority
func List(ctx context.Context, repo domain.Repository) ([]domain.WatchlistEntry, error) {
	entries, err := repo.AllWatchlistEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	Sort(entries)
	return entries, nil
}

// UpdatePriority changes the priority of film's entry. A film that is not
// listed yields domain.ErrNotFound.
func UpdatePriority(ctx context.Context, repo domain.Repository, film *domain.Film, priority domain.Priority) (*domain.WatchlistEntry, error) {
	if !priority.Valid() {
		return nil, fmt.Errorf("update priority: %w: %q", domain.ErrInvalidPriority, priority)
	}

	e, err := Entry(ctx, repo, film)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("watchlist entry for film %s: %w", film.ID, domain.ErrNotFound)
	}

	e.Priority = priority
	if err := repo.UpdateWatchlistEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("update priority: %w", err)
	}
	return e, nil
}

// Clear empties the watchlist
func Clear(ctx context.Context, repo domain.Repository) (int64, error) {
	n, err := repo.DeleteAllWatchlistEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear watchlist: %w", err)
	}
	logger.Get().WithField("deleted", n).Info("Watchlist cleared")
	return n, nil
}

// MarkAsWatched removes film from the watchlist and records a viewing at now
// with rating, in one transaction. Either both happen or neither does.
func MarkAsWatched(ctx context.Context, repo domain.Repository, film *domain.Film, rating int, now time.Time) (*domain.ViewingEvent, error) {
	var viewing *domain.ViewingEvent
	history := len(film.Viewings)

	err := repo.InTx(ctx, func(tx domain.Repository) error {
		if _, err := Remove(ctx, tx, film); err != nil {
			return err
		}
		v, err := journal.RecordViewing(ctx, tx, film, journal.Viewing{ViewedAt: now, Rating: rating})
		if err != nil {
			return err
		}
		viewing = v
		return nil
	})
	if err != nil {
		film.Viewings = film.Viewings[:history]
		return nil, fmt.Errorf("mark as watched: %w", err)
	}
	return viewing, nil
}

// Less orders a before b by priority, then by most recently added.
// Ties keep their relative order under a stable sort.
func Less(a, b domain.WatchlistEntry) bool {
	return compare(a, b) < 0
}

// Sort orders entries in place with Less, stably
func Sort(entries []domain.WatchlistEntry) {
	slices.SortStableFunc(entries, compare)
}

func compare(a, b domain.WatchlistEntry) int {
	if c := cmp.Compare(a.Priority.Order(), b.Priority.Order()); c != 0 {
		return c
	}
	return b.AddedAt.Compare(a.AddedAt)
}
