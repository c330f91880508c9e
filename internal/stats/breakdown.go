package stats

import (
	"slices"

	"github.com/pbaille/cinelog/internal/domain"
)

// GenreStat is one genre's share of the viewings
type GenreStat struct {
	Genre         string  `json:"genre"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
	AverageRating float64 `json:"average_rating"`
}

// Genres counts viewings per genre. A viewing of a film with several genres
// counts once for each, and percentages are relative to all genre-viewing
// pairs. Sorted by count descending, first-seen genre first on ties.
func Genres(events []domain.ViewingEvent, films Films) []GenreStat {
	t := newTally[string]()
	means := make(map[string]*ratingMean)
	pairs := 0

	for _, v := range events {
		for _, g := range films.genres(v) {
			t.add(g)
			m, ok := means[g]
			if !ok {
				m = &ratingMean{}
				means[g] = m
			}
			m.add(v.Rating)
			pairs++
		}
	}

	result := make([]GenreStat, 0, len(t.keys))
	for _, g := range t.keys {
		count := t.counts[g]
		result = append(result, GenreStat{
			Genre:         g,
			Count:         count,
			Percentage:    percent(count, pairs),
			AverageRating: means[g].value(),
		})
	}

	slices.SortStableFunc(result, func(a, b GenreStat) int {
		return b.Count - a.Count
	})
	return result
}

// RatingBucket is the number of viewings given one star rating
type RatingBucket struct {
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RatingDistribution returns one bucket per rating 1..5, in order, always all
// five. Percentages are relative to the viewings with a valid rating.
func RatingDistribution(events []domain.ViewingEvent) []RatingBucket {
	var counts [domain.MaxRating + 1]int
	total := 0
	for _, v := range events {
		if !v.IsValidRating() {
			continue
		}
		counts[v.Rating]++
		total++
	}

	buckets := make([]RatingBucket, 0, domain.MaxRating)
	for r := domain.MinRating; r <= domain.MaxRating; r++ {
		buckets = append(buckets, RatingBucket{
			Rating:     r,
			Count:      counts[r],
			Percentage: percent(counts[r], total),
		})
	}
	return buckets
}
