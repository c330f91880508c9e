package domain

import "time"

// TotalViewings returns the number of viewings loaded on the film
func (f *Film) TotalViewings() int {
	return len(f.Viewings)
}

// IsRewatched reports whether the film has been watched more than once
func (f *Film) IsRewatched() bool {
	return len(f.Viewings) > 1
}

// AverageRating returns the mean of the film's valid ratings.
// ok is false when no viewing carries a valid rating.
func (f *Film) AverageRating() (avg float64, ok bool) {
	var sum, n int
	for _, v := range f.Viewings {
		if !v.IsValidRating() {
			continue
		}
		sum += v.Rating
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// LastViewingDate returns the most recent viewing time, or nil if never watched
func (f *Film) LastViewingDate() *time.Time {
	var last *time.Time
	for i := range f.Viewings {
		at := f.Viewings[i].ViewedAt
		if last == nil || at.After(*last) {
			last = &at
		}
	}
	return last
}

// ReleaseYear returns the release year, or 0 when the release date is unknown
func (f *Film) ReleaseYear() int {
	if f.ReleaseDate == nil {
		return 0
	}
	return f.ReleaseDate.Year()
}
