package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
)

const viewingColumns = "id, film_id, viewed_at, rating, notes, sequence, location, companion, is_rewatch, created_at"

// InsertViewing stores a viewing, assigning an id and creation time when missing
func (s *queries) InsertViewing(ctx context.Context, v *domain.ViewingEvent) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO viewings ("+viewingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		v.ID, v.FilmID, v.ViewedAt.UTC(), v.Rating, v.Notes, v.Sequence, v.Location, v.Companion, v.IsRewatch, v.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert viewing: %w", err)
	}

	logger.Get().WithFields(logrus.Fields{
		"viewing_id": v.ID,
		"film_id":    v.FilmID,
		"sequence":   v.Sequence,
	}).Info("Viewing recorded")
	return nil
}

// GetViewing retrieves a viewing by id
func (s *queries) GetViewing(ctx context.Context, id string) (*domain.ViewingEvent, error) {
	v, err := scanViewing(s.q.QueryRowContext(ctx, "SELECT "+viewingColumns+" FROM viewings WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "viewing "+id)
	}
	return v, nil
}

// UpdateViewing overwrites the mutable fields of a viewing.
// Sequence and rewatch flag are creation-time facts and are not written.
func (s *queries) UpdateViewing(ctx context.Context, v *domain.ViewingEvent) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE viewings SET viewed_at = ?, rating = ?, notes = ?, location = ?, companion = ? WHERE id = ?",
		v.ViewedAt.UTC(), v.Rating, v.Notes, v.Location, v.Companion, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update viewing: %w", err)
	}
	return checkAffected(res, "viewing "+v.ID)
}

// DeleteViewing removes a single viewing; siblings keep their sequence numbers
func (s *queries) DeleteViewing(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM viewings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete viewing: %w", err)
	}
	return checkAffected(res, "viewing "+id)
}

// DeleteViewingsForFilm removes every viewing of a film and returns how many went
func (s *queries) DeleteViewingsForFilm(ctx context.Context, filmID string) (int64, error) {
	res, err := s.q.ExecContext(ctx, "DELETE FROM viewings WHERE film_id = ?", filmID)
	if err != nil {
		return 0, fmt.Errorf("delete viewings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// AllViewingEvents returns viewings matching filter, most recent first
func (s *queries) AllViewingEvents(ctx context.Context, filter domain.ViewingFilter) ([]domain.ViewingEvent, error) {
	var (
		where []string
		args  []any
	)
	if filter.FilmID != "" {
		where = append(where, "film_id = ?")
		args = append(args, filter.FilmID)
	}
	if filter.From != nil {
		where = append(where, "viewed_at >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		where = append(where, "viewed_at <= ?")
		args = append(args, filter.To.UTC())
	}
	if filter.Rating != nil {
		where = append(where, "rating = ?")
		args = append(args, *filter.Rating)
	}

	query := "SELECT " + viewingColumns + " FROM viewings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY viewed_at DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	logger.Get().WithField("query", query).Debug("Listing viewings")

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list viewings: %w", err)
	}
	defer rows.Close()

	var viewings []domain.ViewingEvent
	for rows.Next() {
		v, err := scanViewing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan viewing: %w", err)
		}
		viewings = append(viewings, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list viewings: %w", err)
	}

	return viewings, nil
}

func scanViewing(row rowScanner) (*domain.ViewingEvent, error) {
	var (
		v                          domain.ViewingEvent
		notes, location, companion sql.NullString
	)
	err := row.Scan(&v.ID, &v.FilmID, &v.ViewedAt, &v.Rating, &notes, &v.Sequence, &location, &companion, &v.IsRewatch, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	v.Notes = nullString(notes)
	v.Location = nullString(location)
	v.Companion = nullString(companion)
	return &v, nil
}
