package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
)

const filmColumns = "id, external_id, title, poster_path, release_date, overview, genres, director, cast_names"

// InsertFilm stores a film, assigning an id when it has none
func (s *queries) InsertFilm(ctx context.Context, f *domain.Film) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}

	genres, err := encodeList(f.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	cast, err := encodeList(f.Cast)
	if err != nil {
		return fmt.Errorf("encode cast: %w", err)
	}

	var release any
	if f.ReleaseDate != nil {
		release = f.ReleaseDate.UTC()
	}

	_, err = s.q.ExecContext(ctx,
		"INSERT INTO films ("+filmColumns+", created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		f.ID, f.ExternalID, f.Title, f.PosterPath, release, f.Overview, genres, f.Director, cast, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert film: %w", err)
	}

	logger.Get().WithFields(logrus.Fields{
		"film_id":     f.ID,
		"external_id": f.ExternalID,
	}).Info("Film added")
	return nil
}

// GetFilm retrieves a film by id with its viewings
func (s *queries) GetFilm(ctx context.Context, id string) (*domain.Film, error) {
	f, err := scanFilm(s.q.QueryRowContext(ctx, "SELECT "+filmColumns+" FROM films WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err, "film "+id)
	}
	if err := s.loadViewings(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// FilmByExternalID retrieves a film by its catalog id with its viewings
func (s *queries) FilmByExternalID(ctx context.Context, externalID int) (*domain.Film, error) {
	f, err := scanFilm(s.q.QueryRowContext(ctx, "SELECT "+filmColumns+" FROM films WHERE external_id = ?", externalID))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("film with external id %d", externalID))
	}
	if err := s.loadViewings(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// AllFilms returns every film ordered by title, each with its viewings
func (s *queries) AllFilms(ctx context.Context) ([]domain.Film, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT "+filmColumns+" FROM films ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var films []domain.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		films = append(films, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}

	viewings, err := s.AllViewingEvents(ctx, domain.ViewingFilter{})
	if err != nil {
		return nil, err
	}
	byFilm := make(map[string][]domain.ViewingEvent)
	for _, v := range viewings {
		byFilm[v.FilmID] = append(byFilm[v.FilmID], v)
	}
	for i := range films {
		films[i].Viewings = bySequence(byFilm[films[i].ID])
	}

	return films, nil
}

// DeleteFilm removes a film. Its viewings go with it and watchlist entries
// pointing at it lose their film reference.
func (s *queries) DeleteFilm(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM films WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}
	if err := checkAffected(res, "film "+id); err != nil {
		return err
	}
	logger.Get().WithField("film_id", id).Info("Film deleted")
	return nil
}

func (s *queries) loadViewings(ctx context.Context, f *domain.Film) error {
	viewings, err := s.AllViewingEvents(ctx, domain.ViewingFilter{FilmID: f.ID})
	if err != nil {
		return err
	}
	f.Viewings = bySequence(viewings)
	return nil
}

// bySequence orders a film's viewings by creation sequence
func bySequence(viewings []domain.ViewingEvent) []domain.ViewingEvent {
	slices.SortStableFunc(viewings, func(a, b domain.ViewingEvent) int {
		if c := cmp.Compare(a.Sequence, b.Sequence); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return viewings
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (*domain.Film, error) {
	var (
		f                          domain.Film
		poster, overview, director sql.NullString
		genres, cast               sql.NullString
		release                    sql.NullTime
	)
	if err := row.Scan(&f.ID, &f.ExternalID, &f.Title, &poster, &release, &overview, &genres, &director, &cast); err != nil {
		return nil, err
	}

	f.PosterPath = nullString(poster)
	f.Overview = nullString(overview)
	f.Director = nullString(director)
	if release.Valid {
		t := release.Time
		f.ReleaseDate = &t
	}

	var err error
	if f.Genres, err = decodeList(genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if f.Cast, err = decodeList(cast); err != nil {
		return nil, fmt.Errorf("decode cast: %w", err)
	}
	return &f, nil
}

func encodeList(list []string) (any, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeList(s sql.NullString) ([]string, error) {
	if !s.Valid {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
