package watchlist_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/store"
	"github.com/pbaille/cinelog/internal/watchlist"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "watchlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addFilm(t *testing.T, s *store.Store, externalID int, title string) *domain.Film {
	t.Helper()
	f := &domain.Film{ExternalID: externalID, Title: title}
	require.NoError(t, s.InsertFilm(context.Background(), f))
	return f
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 9, 0, 0, 0, time.UTC)
}

func TestSortByPriorityThenRecency(t *testing.T) {
	entries := []domain.WatchlistEntry{
		{ID: "a", Priority: domain.PriorityHigh, AddedAt: day(10)},
		{ID: "b", Priority: domain.PriorityMedium, AddedAt: day(12)},
		{ID: "c", Priority: domain.PriorityHigh, AddedAt: day(5)},
	}

	watchlist.Sort(entries)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestSortIsStableForTies(t *testing.T) {
	entries := []domain.WatchlistEntry{
		{ID: "low", Priority: domain.PriorityLow, AddedAt: day(1)},
		{ID: "first", Priority: domain.PriorityMedium, AddedAt: day(3)},
		{ID: "second", Priority: domain.PriorityMedium, AddedAt: day(3)},
		{ID: "third", Priority: domain.PriorityMedium, AddedAt: day(3)},
	}

	watchlist.Sort(entries)

	assert.Equal(t, "first", entries[0].ID)
	assert.Equal(t, "second", entries[1].ID)
	assert.Equal(t, "third", entries[2].ID)
	assert.Equal(t, "low", entries[3].ID)
}

func TestLessIsTotal(t *testing.T) {
	entries := []domain.WatchlistEntry{
		{Priority: domain.PriorityLow, AddedAt: day(20)},
		{Priority: domain.PriorityHigh, AddedAt: day(1)},
		{Priority: domain.PriorityMedium, AddedAt: day(15)},
		{Priority: domain.PriorityMedium, AddedAt: day(2)},
	}
	watchlist.Sort(entries)

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			assert.False(t, watchlist.Less(b, a), "entry %d must not sort before entry %d", j, i)
			if a.Priority != b.Priority {
				assert.Less(t, a.Priority.Order(), b.Priority.Order())
			} else {
				assert.False(t, a.AddedAt.Before(b.AddedAt))
			}
		}
	}
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 496243, "Parasite")

	first, err := watchlist.Add(ctx, s, film, domain.PriorityHigh)
	require.NoError(t, err)
	second, err := watchlist.Add(ctx, s, film, domain.PriorityLow)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.PriorityHigh, second.Priority)

	entries, err := watchlist.List(ctx, s)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAddDefaultsToMedium(t *testing.T) {
	s := newStore(t)
	film := addFilm(t, s, 129, "Spirited Away")

	e, err := watchlist.Add(context.Background(), s, film, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, e.Priority)
}

func TestAddRejectsUnknownPriority(t *testing.T) {
	s := newStore(t)
	film := addFilm(t, s, 129, "Spirited Away")

	_, err := watchlist.Add(context.Background(), s, film, domain.Priority("urgent"))
	assert.True(t, errors.Is(err, domain.ErrInvalidPriority))
}

func TestRemoveToleratesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 372058, "Your Name")

	for i := 0; i < 2; i++ {
		require.NoError(t, s.InsertWatchlistEntry(ctx, &domain.WatchlistEntry{FilmID: film.ID, Priority: domain.PriorityLow}))
	}

	n, err := watchlist.Remove(ctx, s, film)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	listed, err := watchlist.Contains(ctx, s, film)
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 550, "Fight Club")

	listed, err := watchlist.Toggle(ctx, s, film)
	require.NoError(t, err)
	assert.True(t, listed)

	e, err := watchlist.Entry(ctx, s, film)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, domain.PriorityMedium, e.Priority)

	listed, err = watchlist.Toggle(ctx, s, film)
	require.NoError(t, err)
	assert.False(t, listed)

	e, err = watchlist.Entry(ctx, s, film)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	films := []*domain.Film{
		addFilm(t, s, 1, "One"),
		addFilm(t, s, 2, "Two"),
		addFilm(t, s, 3, "Three"),
	}
	seed := []domain.WatchlistEntry{
		{FilmID: films[0].ID, Priority: domain.PriorityHigh, AddedAt: day(10)},
		{FilmID: films[1].ID, Priority: domain.PriorityMedium, AddedAt: day(12)},
		{FilmID: films[2].ID, Priority: domain.PriorityHigh, AddedAt: day(5)},
	}
	for i := range seed {
		require.NoError(t, s.InsertWatchlistEntry(ctx, &seed[i]))
	}

	entries, err := watchlist.List(ctx, s)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, films[0].ID, entries[0].FilmID)
	assert.Equal(t, films[2].ID, entries[1].FilmID)
	assert.Equal(t, films[1].ID, entries[2].FilmID)
}

func TestUpdatePriority(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 769, "GoodFellas")

	_, err := watchlist.UpdatePriority(ctx, s, film, domain.PriorityHigh)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = watchlist.Add(ctx, s, film, domain.PriorityLow)
	require.NoError(t, err)

	e, err := watchlist.UpdatePriority(ctx, s, film, domain.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, e.Priority)

	stored, err := watchlist.Entry(ctx, s, film)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, stored.Priority)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for i := 1; i <= 3; i++ {
		_, err := watchlist.Add(ctx, s, addFilm(t, s, i, "Film"), domain.PriorityMedium)
		require.NoError(t, err)
	}

	n, err := watchlist.Clear(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	entries, err := watchlist.List(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMarkAsWatched(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 424, "Schindler's List")

	_, err := watchlist.Add(ctx, s, film, domain.PriorityHigh)
	require.NoError(t, err)

	now := time.Date(2025, 8, 1, 22, 0, 0, 0, time.UTC)
	v, err := watchlist.MarkAsWatched(ctx, s, film, 5, now)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Rating)
	assert.Equal(t, 1, v.Sequence)
	assert.False(t, v.IsRewatch)
	assert.True(t, v.ViewedAt.Equal(now))

	listed, err := watchlist.Contains(ctx, s, film)
	require.NoError(t, err)
	assert.False(t, listed)

	viewings, err := s.AllViewingEvents(ctx, domain.ViewingFilter{FilmID: film.ID})
	require.NoError(t, err)
	require.Len(t, viewings, 1)
	assert.Equal(t, v.ID, viewings[0].ID)
}

var errDiskFull = errors.New("disk full")

// failingViewings refuses to store viewings, inside or outside a transaction
type failingViewings struct {
	domain.Repository
}

func (f failingViewings) InsertViewing(context.Context, *domain.ViewingEvent) error {
	return errDiskFull
}

func (f failingViewings) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	return f.Repository.InTx(ctx, func(tx domain.Repository) error {
		return fn(failingViewings{tx})
	})
}

func TestMarkAsWatchedIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 278, "The Shawshank Redemption")

	_, err := watchlist.Add(ctx, s, film, domain.PriorityHigh)
	require.NoError(t, err)

	_, err = watchlist.MarkAsWatched(ctx, failingViewings{s}, film, 4, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDiskFull))
	assert.Empty(t, film.Viewings)

	listed, err := watchlist.Contains(ctx, s, film)
	require.NoError(t, err)
	assert.True(t, listed, "watchlist removal must roll back with the failed viewing")

	viewings, err := s.AllViewingEvents(ctx, domain.ViewingFilter{})
	require.NoError(t, err)
	assert.Empty(t, viewings)
}

func TestDeletingFilmOrphansEntry(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 11, "Star Wars")

	_, err := watchlist.Add(ctx, s, film, domain.PriorityLow)
	require.NoError(t, err)
	require.NoError(t, s.DeleteFilm(ctx, film.ID))

	entries, err := watchlist.List(ctx, s)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].FilmID)
}
