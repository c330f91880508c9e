package stats

import (
	"context"
	"fmt"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
)

// Collect loads the viewings selected by filter, most recent first, along
// with the film index. Every statistics surface reads through it so that
// first-seen tie-breaks resolve the same way everywhere.
func Collect(ctx context.Context, repo domain.Repository, filter domain.ViewingFilter) ([]domain.ViewingEvent, Films, error) {
	events, err := journal.List(ctx, repo, filter)
	if err != nil {
		return nil, nil, err
	}
	films, err := repo.AllFilms(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load films: %w", err)
	}
	return events, IndexFilms(films), nil
}
