// Package stats turns a snapshot of viewings into journal statistics.
//
// Collect reads a snapshot from a repository, most recent viewing first.
// Every other function is pure: inputs are never modified and nothing is cached.
// Empty or malformed input degrades to zero values, empty slices or absent
// results; no function returns an error. Ratings outside 1..5 are skipped by
// every rating average and by the rating distribution.
//
// Count ties in genre and decade rankings go to the key encountered first
// while walking the events in input order (and a film's genres in list order).
// Film rankings break ties by film id.
package stats

import "github.com/pbaille/cinelog/internal/domain"

// EstimatedMinutesPerViewing is the fixed runtime assumed for every viewing
const EstimatedMinutesPerViewing = 120

// DefaultTopLimit is the usual length of the top-rated and most-watched lists
const DefaultTopLimit = 5

// Films indexes films by id for resolving a viewing's film
type Films map[string]*domain.Film

// IndexFilms builds a Films index over films
func IndexFilms(films []domain.Film) Films {
	idx := make(Films, len(films))
	for i := range films {
		idx[films[i].ID] = &films[i]
	}
	return idx
}

func (idx Films) genres(v domain.ViewingEvent) []string {
	if f, ok := idx[v.FilmID]; ok && f != nil {
		return f.Genres
	}
	return nil
}

// tally counts keys and remembers the order they were first seen in
type tally[K comparable] struct {
	keys   []K
	counts map[K]int
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(k K) {
	if _, seen := t.counts[k]; !seen {
		t.keys = append(t.keys, k)
	}
	t.counts[k]++
}

// max returns the key with the highest count, earliest seen on ties
func (t *tally[K]) max() (K, bool) {
	var (
		best  K
		count int
		found bool
	)
	for _, k := range t.keys {
		if c := t.counts[k]; !found || c > count {
			best, count, found = k, c, true
		}
	}
	return best, found
}

// ratingMean accumulates valid ratings
type ratingMean struct {
	sum, n int
}

func (m *ratingMean) add(rating int) {
	if !domain.ValidRating(rating) {
		return
	}
	m.sum += rating
	m.n++
}

func (m ratingMean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.n)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
