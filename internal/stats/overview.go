package stats

import (
	"time"

	"github.com/pbaille/cinelog/internal/domain"
)

// Overview summarizes a set of viewings
type Overview struct {
	TotalFilms                int     `json:"total_films"`
	TotalViewings             int     `json:"total_viewings"`
	AverageRating             float64 `json:"average_rating"`
	TotalRatedCount           int     `json:"total_rated_count"`
	EstimatedWatchTimeMinutes int     `json:"estimated_watch_time_minutes"`
	MostWatchedGenre          *string `json:"most_watched_genre,omitempty"`
	FavoriteDecade            *int    `json:"favorite_decade,omitempty"`
	AverageViewingsPerMonth   float64 `json:"average_viewings_per_month"`
	RewatchCount              int     `json:"rewatch_count"`
	RewatchPercentage         float64 `json:"rewatch_percentage"`
}

// ComputeOverview aggregates events; films resolves genres and release dates
func ComputeOverview(events []domain.ViewingEvent, films Films) Overview {
	o := Overview{
		TotalViewings:             len(events),
		EstimatedWatchTimeMinutes: len(events) * EstimatedMinutesPerViewing,
	}

	distinct := make(map[string]struct{})
	var mean ratingMean
	for _, v := range events {
		if v.FilmID != "" {
			distinct[v.FilmID] = struct{}{}
		}
		mean.add(v.Rating)
		if v.IsRewatch {
			o.RewatchCount++
		}
	}

	o.TotalFilms = len(distinct)
	o.AverageRating = mean.value()
	o.TotalRatedCount = mean.n
	o.RewatchPercentage, _ = RewatchRate(events)
	o.AverageViewingsPerMonth = AverageViewingsPerMonth(events)

	if g, ok := MostWatchedGenre(events, films); ok {
		o.MostWatchedGenre = &g
	}
	if d, ok := FavoriteDecade(events, films); ok {
		o.FavoriteDecade = &d
	}
	return o
}

// MostWatchedGenre returns the genre counted on the most viewings.
// ok is false when no viewing resolves to a film with genres.
func MostWatchedGenre(events []domain.ViewingEvent, films Films) (genre string, ok bool) {
	t := newTally[string]()
	for _, v := range events {
		for _, g := range films.genres(v) {
			t.add(g)
		}
	}
	return t.max()
}

// FavoriteDecade returns the release decade (1990 for the 1990s) with the most viewings.
// ok is false when no viewing resolves to a film with a release date.
func FavoriteDecade(events []domain.ViewingEvent, films Films) (decade int, ok bool) {
	t := newTally[int]()
	for _, v := range events {
		f, found := films[v.FilmID]
		if !found || f == nil || f.ReleaseDate == nil {
			continue
		}
		t.add(Decade(f.ReleaseDate.Year()))
	}
	return t.max()
}

// Decade rounds year down to its decade
func Decade(year int) int {
	d := year / 10 * 10
	if year < 0 && year%10 != 0 {
		d -= 10
	}
	return d
}

// RewatchRate is the percentage of events that are rewatches.
// ok is false when there are no events.
func RewatchRate(events []domain.ViewingEvent) (rate float64, ok bool) {
	if len(events) == 0 {
		return 0, false
	}
	n := 0
	for _, v := range events {
		if v.IsRewatch {
			n++
		}
	}
	return percent(n, len(events)), true
}

// AverageViewingsPerMonth divides the viewing count by the whole calendar
// months spanned between the earliest and latest viewing, at least one.
func AverageViewingsPerMonth(events []domain.ViewingEvent) float64 {
	if len(events) == 0 {
		return 0
	}

	earliest, latest := events[0].ViewedAt, events[0].ViewedAt
	for _, v := range events[1:] {
		if v.ViewedAt.Before(earliest) {
			earliest = v.ViewedAt
		}
		if v.ViewedAt.After(latest) {
			latest = v.ViewedAt
		}
	}

	return float64(len(events)) / float64(max(MonthsBetween(earliest, latest), 1))
}

// MonthsBetween counts the whole calendar months elapsed from a to b.
// A month only counts once b reaches a's day and time of month.
func MonthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return -MonthsBetween(b, a)
	}
	b = b.In(a.Location())

	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months > 0 && offsetInMonth(b) < offsetInMonth(a) {
		months--
	}
	return months
}

// offsetInMonth is the time elapsed since midnight on the first of t's month
func offsetInMonth(t time.Time) time.Duration {
	clock := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return time.Duration(t.Day()-1)*24*time.Hour + clock
}
