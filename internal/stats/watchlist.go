package stats

import (
	"time"

	"github.com/pbaille/cinelog/internal/domain"
)

// WatchlistSummary counts watchlist entries
type WatchlistSummary struct {
	Total                  int     `json:"total"`
	HighPriority           int     `json:"high_priority"`
	MediumPriority         int     `json:"medium_priority"`
	LowPriority            int     `json:"low_priority"`
	AverageDaysInWatchlist float64 `json:"average_days_in_watchlist"`
}

// Watchlist summarizes entries as of now. Days in the watchlist are whole
// days elapsed since each entry was added.
func Watchlist(entries []domain.WatchlistEntry, now time.Time) WatchlistSummary {
	s := WatchlistSummary{Total: len(entries)}
	if len(entries) == 0 {
		return s
	}

	days := 0
	for _, e := range entries {
		switch e.Priority {
		case domain.PriorityHigh:
			s.HighPriority++
		case domain.PriorityMedium:
			s.MediumPriority++
		case domain.PriorityLow:
			s.LowPriority++
		}
		days += int(now.Sub(e.AddedAt) / (24 * time.Hour))
	}
	s.AverageDaysInWatchlist = float64(days) / float64(len(entries))
	return s
}
