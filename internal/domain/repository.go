package domain

import (
	"context"
	"time"
)

// ViewingFilter narrows a viewing query. Zero values match everything.
type ViewingFilter struct {
	FilmID string
	From   *time.Time
	To     *time.Time
	Rating *int
	Limit  int
}

// Repository is the persistence handle that journal and watchlist operations
// are threaded through. Implementations own commit semantics: InTx runs fn
// against a transactional handle and returns any commit failure unchanged.
type Repository interface {
	InsertFilm(ctx context.Context, f *Film) error
	GetFilm(ctx context.Context, id string) (*Film, error)
	FilmByExternalID(ctx context.Context, externalID int) (*Film, error)
	AllFilms(ctx context.Context) ([]Film, error)
	DeleteFilm(ctx context.Context, id string) error

	InsertViewing(ctx context.Context, v *ViewingEvent) error
	GetViewing(ctx context.Context, id string) (*ViewingEvent, error)
	UpdateViewing(ctx context.Context, v *ViewingEvent) error
	DeleteViewing(ctx context.Context, id string) error
	DeleteViewingsForFilm(ctx context.Context, filmID string) (int64, error)
	AllViewingEvents(ctx context.Context, filter ViewingFilter) ([]ViewingEvent, error)

	InsertWatchlistEntry(ctx context.Context, e *WatchlistEntry) error
	UpdateWatchlistEntry(ctx context.Context, e *WatchlistEntry) error
	WatchlistEntriesForFilm(ctx context.Context, filmID string) ([]WatchlistEntry, error)
	DeleteWatchlistEntriesForFilm(ctx context.Context, filmID string) (int64, error)
	DeleteAllWatchlistEntries(ctx context.Context) (int64, error)
	AllWatchlistEntries(ctx context.Context) ([]WatchlistEntry, error)

	InTx(ctx context.Context, fn func(Repository) error) error
}
