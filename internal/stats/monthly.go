package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/pbaille/cinelog/internal/domain"
	"golang.org/x/text/language"
)

// MonthStat aggregates the viewings of one calendar month
type MonthStat struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Label         string     `json:"label"`
	ViewingCount  int        `json:"viewing_count"`
	AverageRating float64    `json:"average_rating"`
}

type monthKey struct {
	year  int
	month time.Month
}

// Monthly groups viewings by the year and month of their date, in the
// date's own location, and returns the groups in chronological order.
// Labels are month names in lang.
func Monthly(events []domain.ViewingEvent, lang language.Tag) []MonthStat {
	counts := make(map[monthKey]int)
	means := make(map[monthKey]*ratingMean)
	for _, v := range events {
		k := monthKey{v.ViewedAt.Year(), v.ViewedAt.Month()}
		counts[k]++
		m, ok := means[k]
		if !ok {
			m = &ratingMean{}
			means[k] = m
		}
		m.add(v.Rating)
	}

	result := make([]MonthStat, 0, len(counts))
	for k, n := range counts {
		result = append(result, MonthStat{
			Year:          k.year,
			Month:         k.month,
			Label:         MonthName(k.month, lang),
			ViewingCount:  n,
			AverageRating: means[k].value(),
		})
	}

	slices.SortFunc(result, func(a, b MonthStat) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return result
}

// MonthlyCounts returns the number of viewings in each month of year,
// index 0 being January.
func MonthlyCounts(events []domain.ViewingEvent, year int) [12]int {
	var counts [12]int
	for _, v := range events {
		if v.ViewedAt.Year() == year {
			counts[v.ViewedAt.Month()-1]++
		}
	}
	return counts
}

var (
	supported = []language.Tag{language.English, language.Japanese}
	matcher   = language.NewMatcher(supported)

	monthNames = map[language.Tag][12]string{
		language.English: {
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		language.Japanese: {
			"1月", "2月", "3月", "4月", "5月", "6月",
			"7月", "8月", "9月", "10月", "11月", "12月",
		},
	}
)

// MatchLanguage picks the closest supported display language, English by default
func MatchLanguage(tag language.Tag) language.Tag {
	_, i, _ := matcher.Match(tag)
	return supported[i]
}

// ParseLanguage parses a BCP 47 tag, falling back to English when malformed
func ParseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return MatchLanguage(tag)
}

// MonthName returns the display name of m in lang
func MonthName(m time.Month, lang language.Tag) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[MatchLanguage(lang)][m-1]
}
