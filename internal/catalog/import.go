package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Imported is the outcome of importing one movie
type Imported struct {
	Film     *domain.Film `json:"film"`
	Existing bool         `json:"existing"`
}

// Import adds each movie as a film unless a film with the same TMDB id exists,
// in which case the stored film is returned instead
func Import(ctx context.Context, repo domain.Repository, movies []Movie, lang language.Tag) ([]Imported, error) {
	out := make([]Imported, 0, len(movies))
	for _, m := range movies {
		existing, err := repo.FilmByExternalID(ctx, m.ID)
		switch {
		case err == nil:
			out = append(out, Imported{Film: existing, Existing: true})
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return out, fmt.Errorf("import movie %d: %w", m.ID, err)
		}

		f := m.Film(lang)
		if err := repo.InsertFilm(ctx, &f); err != nil {
			return out, fmt.Errorf("import movie %d: %w", m.ID, err)
		}
		out = append(out, Imported{Film: &f})
	}

	logger.Get().WithFields(logrus.Fields{
		"movies": len(movies),
		"lang":   lang.String(),
	}).Debug("Catalog import finished")
	return out, nil
}
