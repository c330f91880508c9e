package stats

import (
	"cmp"
	"slices"

	"github.com/pbaille/cinelog/internal/domain"
)

// RankedFilm is a film with the metrics it was ranked by
type RankedFilm struct {
	Film          domain.Film `json:"film"`
	AverageRating float64     `json:"average_rating"`
	ViewingCount  int         `json:"viewing_count"`
}

type filmGroup struct {
	id    string
	count int
	mean  ratingMean
}

func groupByFilm(events []domain.ViewingEvent) []*filmGroup {
	var order []*filmGroup
	groups := make(map[string]*filmGroup)
	for _, v := range events {
		if v.FilmID == "" {
			continue
		}
		g, ok := groups[v.FilmID]
		if !ok {
			g = &filmGroup{id: v.FilmID}
			groups[v.FilmID] = g
			order = append(order, g)
		}
		g.count++
		g.mean.add(v.Rating)
	}
	return order
}

func (idx Films) ranked(g *filmGroup) RankedFilm {
	r := RankedFilm{
		Film:          domain.Film{ID: g.id},
		AverageRating: g.mean.value(),
		ViewingCount:  g.count,
	}
	if f, ok := idx[g.id]; ok && f != nil {
		r.Film = *f
		r.Film.Viewings = nil
	}
	return r
}

// TopRated returns up to limit films by mean valid rating, highest first.
// Films without a valid rating are left out.
func TopRated(events []domain.ViewingEvent, films Films, limit int) []RankedFilm {
	if limit <= 0 {
		return []RankedFilm{}
	}

	var ranked []RankedFilm
	for _, g := range groupByFilm(events) {
		if g.mean.n == 0 {
			continue
		}
		ranked = append(ranked, films.ranked(g))
	}

	slices.SortFunc(ranked, func(a, b RankedFilm) int {
		if c := cmp.Compare(b.AverageRating, a.AverageRating); c != 0 {
			return c
		}
		return cmp.Compare(a.Film.ID, b.Film.ID)
	})
	return head(ranked, limit)
}

// MostWatched returns up to limit films by viewing count, highest first
func MostWatched(events []domain.ViewingEvent, films Films, limit int) []RankedFilm {
	if limit <= 0 {
		return []RankedFilm{}
	}

	var ranked []RankedFilm
	for _, g := range groupByFilm(events) {
		ranked = append(ranked, films.ranked(g))
	}

	slices.SortFunc(ranked, func(a, b RankedFilm) int {
		if c := cmp.Compare(b.ViewingCount, a.ViewingCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Film.ID, b.Film.ID)
	})
	return head(ranked, limit)
}

func head(ranked []RankedFilm, limit int) []RankedFilm {
	if ranked == nil {
		return []RankedFilm{}
	}
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
