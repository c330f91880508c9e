package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a film, viewing or watchlist entry does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidPriority is returned when a priority string is not high, medium or low
	ErrInvalidPriority = errors.New("invalid priority")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Film is a catalog entry and the owner of its viewing events
type Film struct {
	ID          string     `json:"id"`
	ExternalID  int        `json:"external_id"`
	Title       string     `json:"title"`
	PosterPath  *string    `json:"poster_path,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Overview    *string    `json:"overview,omitempty"`
	Genres      []string   `json:"genres,omitempty"`
	Director    *string    `json:"director,omitempty"`
	Cast        []string   `json:"cast,omitempty"`

	Viewings []ViewingEvent `json:"viewings,omitempty"`
}

// ViewingEvent is one logged occurrence of watching a film
type ViewingEvent struct {
	ID        string    `json:"id"`
	FilmID    string    `json:"film_id"`
	ViewedAt  time.Time `json:"viewed_at"`
	Rating    int       `json:"rating"`
	Notes     *string   `json:"notes,omitempty"`
	Sequence  int       `json:"sequence"`
	Location  *string   `json:"location,omitempty"`
	Companion *string   `json:"companion,omitempty"`
	IsRewatch bool      `json:"is_rewatch"`
	CreatedAt time.Time `json:"created_at"`
}

// ViewingUpdate carries the fields to overwrite on an existing viewing.
// Nil fields are left unchanged.
type ViewingUpdate struct {
	ViewedAt  *time.Time `json:"viewed_at,omitempty"`
	Rating    *int       `json:"rating,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Companion *string    `json:"companion,omitempty"`
}

// WatchlistEntry is the intent to watch a film later.
// FilmID is empty once the referenced film has been deleted.
type WatchlistEntry struct {
	ID       string    `json:"id"`
	FilmID   string    `json:"film_id,omitempty"`
	AddedAt  time.Time `json:"added_at"`
	Priority Priority  `json:"priority"`
	Notes    *string   `json:"notes,omitempty"`
}

// ValidRating reports whether r lies in the 1..5 star range
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// IsValidRating reports whether the stored rating is usable by rating statistics
func (v ViewingEvent) IsValidRating() bool {
	return ValidRating(v.Rating)
}

// Apply overwrites the fields present in u
func (u ViewingUpdate) Apply(v *ViewingEvent) {
	if u.ViewedAt != nil {
		v.ViewedAt = *u.ViewedAt
	}
	if u.Rating != nil {
		v.Rating = *u.Rating
	}
	if u.Notes != nil {
		v.Notes = u.Notes
	}
	if u.Location != nil {
		v.Location = u.Location
	}
	if u.Companion != nil {
		v.Companion = u.Companion
	}
}

// IsEmpty reports whether the update carries no fields
func (u ViewingUpdate) IsEmpty() bool {
	return u.ViewedAt == nil && u.Rating == nil && u.Notes == nil && u.Location == nil && u.Companion == nil
}
