// Package journal records viewings of films.
//
// A viewing's sequence number and rewatch flag are fixed when it is created
// from the film's history at that moment. Updates never touch them, and
// deleting a viewing does not renumber its siblings.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
)

// Viewing holds the user-supplied fields of a new viewing
type Viewing struct {
	ViewedAt  time.Time
	Rating    int
	Notes     *string
	Location  *string
	Companion *string
}

// NewViewing builds the next viewing of film and appends it to film.Viewings.
// The rating is stored as given; out-of-range values are left for statistics to skip.
func NewViewing(film *domain.Film, in Viewing) domain.ViewingEvent {
	n := len(film.Viewings)
	v := domain.ViewingEvent{
		FilmID:    film.ID,
		ViewedAt:  in.ViewedAt,
		Rating:    in.Rating,
		Notes:     in.Notes,
		Sequence:  n + 1,
		Location:  in.Location,
		Companion: in.Companion,
		IsRewatch: n > 0,
	}
	film.Viewings = append(film.Viewings, v)
	return v
}

// RecordViewing creates the next viewing of film and persists it.
// film.Viewings must hold the film's current history.
func RecordViewing(ctx context.Context, repo domain.Repository, film *domain.Film, in Viewing) (*domain.ViewingEvent, error) {
	v := NewViewing(film, in)
	if err := repo.InsertViewing(ctx, &v); err != nil {
		film.Viewings = film.Viewings[:len(film.Viewings)-1]
		return nil, fmt.Errorf("record viewing: %w", err)
	}
	film.Viewings[len(film.Viewings)-1] = v

	if !v.IsValidRating() {
		logger.Get().WithFields(logrus.Fields{
			"viewing_id": v.ID,
			"rating":     v.Rating,
		}).Warn("Viewing stored with out-of-range rating")
	}
	return &v, nil
}

// UpdateViewing applies u to the stored viewing id and saves it
func UpdateViewing(ctx context.Context, repo domain.Repository, id string, u domain.ViewingUpdate) (*domain.ViewingEvent, error) {
	v, err := repo.GetViewing(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsEmpty() {
		return v, nil
	}

	u.Apply(v)
	if err := repo.UpdateViewing(ctx, v); err != nil {
		return nil, fmt.Errorf("update viewing: %w", err)
	}

	logger.Get().WithField("viewing_id", id).Info("Viewing updated")
	return v, nil
}

// DeleteViewing removes one viewing
func DeleteViewing(ctx context.Context, repo domain.Repository, id string) error {
	if err := repo.DeleteViewing(ctx, id); err != nil {
		return err
	}
	logger.Get().WithField("viewing_id", id).Info("Viewing deleted")
	return nil
}

// DeleteAllViewings removes every viewing of film and returns the count
func DeleteAllViewings(ctx context.Context, repo domain.Repository, film *domain.Film) (int64, error) {
	n, err := repo.DeleteViewingsForFilm(ctx, film.ID)
	if err != nil {
		return 0, err
	}
	film.Viewings = nil

	logger.Get().WithFields(logrus.Fields{
		"film_id": film.ID,
		"deleted": n,
	}).Info("Viewings cleared")
	return n, nil
}

// List returns the viewings matching filter, most recent first.
// A zero filter selects every viewing.
func List(ctx context.Context, repo domain.Repository, filter domain.ViewingFilter) ([]domain.ViewingEvent, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", filter.Limit)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil
	}

	viewings, err := repo.AllViewingEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list viewings: %w", err)
	}
	logger.Get().WithFields(logrus.Fields{
		"film_id": filter.FilmID,
		"count":   len(viewings),
	}).Debug("Viewings listed")
	return viewings, nil
}

// ParseDate accepts RFC 3339 or a bare YYYY-MM-DD date in local time.
// With endOfDay set, a bare date stands for its last instant, so it can
// serve as an inclusive upper bound.
func ParseDate(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", v)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
