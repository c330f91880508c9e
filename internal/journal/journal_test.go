package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
	"github.com/pbaille/cinelog/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
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

func TestNewViewingSequencesAndFlagsRewatch(t *testing.T) {
	film := &domain.Film{ID: "film-a"}
	day := time.Date(2025, 7, 13, 21, 0, 0, 0, time.UTC)

	first := journal.NewViewing(film, journal.Viewing{ViewedAt: day, Rating: 4})
	assert.Equal(t, 1, first.Sequence)
	assert.False(t, first.IsRewatch)
	assert.Equal(t, "film-a", first.FilmID)

	second := journal.NewViewing(film, journal.Viewing{ViewedAt: day.AddDate(0, 1, 0), Rating: 5})
	assert.Equal(t, 2, second.Sequence)
	assert.True(t, second.IsRewatch)

	for i := 3; i <= 5; i++ {
		v := journal.NewViewing(film, journal.Viewing{ViewedAt: day, Rating: 3})
		assert.Equal(t, i, v.Sequence)
		assert.True(t, v.IsRewatch)
	}
	assert.Len(t, film.Viewings, 5)
}

func TestNewViewingKeepsOutOfRangeRating(t *testing.T) {
	film := &domain.Film{ID: "film-a"}
	v := journal.NewViewing(film, journal.Viewing{Rating: 7})
	assert.Equal(t, 7, v.Rating)
	assert.False(t, v.IsValidRating())
}

func TestRecordViewingPersists(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 603, "The Matrix")

	notes := "first time on the big screen"
	first, err := journal.RecordViewing(ctx, s, film, journal.Viewing{
		ViewedAt: time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC),
		Rating:   5,
		Notes:    &notes,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 1, first.Sequence)
	assert.False(t, first.IsRewatch)

	reloaded, err := s.GetFilm(ctx, film.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Viewings, 1)

	second, err := journal.RecordViewing(ctx, s, reloaded, journal.Viewing{
		ViewedAt: time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC),
		Rating:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)
	assert.True(t, second.IsRewatch)

	stored, err := s.GetViewing(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Sequence)
	assert.True(t, stored.IsRewatch)
	assert.Equal(t, film.ID, stored.FilmID)
}

func TestUpdateViewingKeepsCreationFacts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 27205, "Inception")

	_, err := journal.RecordViewing(ctx, s, film, journal.Viewing{ViewedAt: time.Now(), Rating: 3})
	require.NoError(t, err)
	v, err := journal.RecordViewing(ctx, s, film, journal.Viewing{ViewedAt: time.Now(), Rating: 3})
	require.NoError(t, err)

	rating := 5
	companion := "Aiko"
	updated, err := journal.UpdateViewing(ctx, s, v.ID, domain.ViewingUpdate{Rating: &rating, Companion: &companion})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, 2, updated.Sequence)
	assert.True(t, updated.IsRewatch)

	stored, err := s.GetViewing(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Rating)
	require.NotNil(t, stored.Companion)
	assert.Equal(t, "Aiko", *stored.Companion)
	assert.Nil(t, stored.Notes)
}

func TestUpdateViewingNotFound(t *testing.T) {
	s := newStore(t)
	rating := 2
	_, err := journal.UpdateViewing(context.Background(), s, "missing", domain.ViewingUpdate{Rating: &rating})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteViewingDoesNotRenumber(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 155, "The Dark Knight")

	var ids []string
	for i := 0; i < 3; i++ {
		v, err := journal.RecordViewing(ctx, s, film, journal.Viewing{ViewedAt: time.Now(), Rating: 4})
		require.NoError(t, err)
		ids = append(ids, v.ID)
	}

	require.NoError(t, journal.DeleteViewing(ctx, s, ids[1]))

	reloaded, err := s.GetFilm(ctx, film.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Viewings, 2)
	assert.Equal(t, 1, reloaded.Viewings[0].Sequence)
	assert.False(t, reloaded.Viewings[0].IsRewatch)
	assert.Equal(t, 3, reloaded.Viewings[1].Sequence)
	assert.True(t, reloaded.Viewings[1].IsRewatch)

	err = journal.DeleteViewing(ctx, s, ids[1])
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteAllViewings(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 13, "Forrest Gump")
	other := addFilm(t, s, 680, "Pulp Fiction")

	for i := 0; i < 2; i++ {
		_, err := journal.RecordViewing(ctx, s, film, journal.Viewing{ViewedAt: time.Now(), Rating: 4})
		require.NoError(t, err)
	}
	_, err := journal.RecordViewing(ctx, s, other, journal.Viewing{ViewedAt: time.Now(), Rating: 5})
	require.NoError(t, err)

	n, err := journal.DeleteAllViewings(ctx, s, film)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Empty(t, film.Viewings)

	all, err := s.AllViewingEvents(ctx, domain.ViewingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].FilmID)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	film := addFilm(t, s, 238, "The Godfather")
	other := addFilm(t, s, 240, "The Godfather Part II")

	dates := []time.Time{
		time.Date(2025, 1, 5, 20, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 5, 20, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 20, 0, 0, 0, time.UTC),
	}
	var ids []string
	for i, d := range dates {
		v, err := journal.RecordViewing(ctx, s, film, journal.Viewing{ViewedAt: d, Rating: 3 + i%2})
		require.NoError(t, err)
		ids = append(ids, v.ID)
	}
	late, err := journal.RecordViewing(ctx, s, other, journal.Viewing{ViewedAt: dates[2].Add(time.Hour), Rating: 4})
	require.NoError(t, err)

	from := dates[0].Add(time.Hour)
	to := dates[2]
	four := 4
	tests := []struct {
		name   string
		filter domain.ViewingFilter
		want   []string
	}{
		{"all newest first", domain.ViewingFilter{}, []string{late.ID, ids[2], ids[1], ids[0]}},
		{"recent", domain.ViewingFilter{Limit: 2}, []string{late.ID, ids[2]}},
		{"between", domain.ViewingFilter{From: &from, To: &to}, []string{ids[2], ids[1]}},
		{"inverted range", domain.ViewingFilter{From: &to, To: &from}, nil},
		{"rating", domain.ViewingFilter{Rating: &four}, []string{late.ID, ids[1]}},
		{"film and rating", domain.ViewingFilter{FilmID: film.ID, Rating: &four}, []string{ids[1]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := journal.List(ctx, s, tt.filter)
			require.NoError(t, err)
			var gotIDs []string
			for _, v := range got {
				gotIDs = append(gotIDs, v.ID)
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}

	_, err = journal.List(ctx, s, domain.ViewingFilter{Limit: -1})
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	start, err := journal.ParseDate("2025-03-09", false)
	require.NoError(t, err)
	assert.Equal(t, time.Local.String(), start.Location().String())
	assert.True(t, start.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)))

	end, err := journal.ParseDate("2025-03-09", true)
	require.NoError(t, err)
	assert.True(t, end.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)))

	exact, err := journal.ParseDate("2025-03-09T21:30:00Z", true)
	require.NoError(t, err)
	assert.True(t, exact.Equal(time.Date(2025, 3, 9, 21, 30, 0, 0, time.UTC)))

	_, err = journal.ParseDate("09/03/2025", false)
	assert.Error(t, err)
}
