package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRating(t *testing.T) {
	tests := []struct {
		rating int
		want   bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-2, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ViewingEvent{Rating: tt.rating}.IsValidRating(), "rating %d", tt.rating)
	}
}

func TestViewingUpdateApply(t *testing.T) {
	notes := "original"
	v := ViewingEvent{Rating: 3, Notes: &notes, Sequence: 2, IsRewatch: true}

	rating := 5
	location := "Shinjuku"
	ViewingUpdate{Rating: &rating, Location: &location}.Apply(&v)

	assert.Equal(t, 5, v.Rating)
	require.NotNil(t, v.Notes)
	assert.Equal(t, "original", *v.Notes)
	require.NotNil(t, v.Location)
	assert.Equal(t, "Shinjuku", *v.Location)
	assert.Equal(t, 2, v.Sequence)
	assert.True(t, v.IsRewatch)
}

func TestViewingUpdateIsEmpty(t *testing.T) {
	assert.True(t, ViewingUpdate{}.IsEmpty())
	now := time.Now()
	assert.False(t, ViewingUpdate{ViewedAt: &now}.IsEmpty())
}

func TestPriorityOrder(t *testing.T) {
	assert.Less(t, PriorityHigh.Order(), PriorityMedium.Order())
	assert.Less(t, PriorityMedium.Order(), PriorityLow.Order())
	assert.Less(t, PriorityLow.Order(), Priority("urgent").Order())
	assert.False(t, Priority("urgent").Valid())
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("someday")
	assert.True(t, errors.Is(err, ErrInvalidPriority))
}

func TestFilmDerivedValues(t *testing.T) {
	release := time.Date(1994, 9, 23, 0, 0, 0, 0, time.UTC)
	f := Film{ReleaseDate: &release}

	_, ok := f.AverageRating()
	assert.False(t, ok)
	assert.Nil(t, f.LastViewingDate())
	assert.False(t, f.IsRewatched())

	first := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	f.Viewings = []ViewingEvent{
		{ViewedAt: second, Rating: 4},
		{ViewedAt: first, Rating: 5},
		{ViewedAt: first, Rating: 9},
	}

	avg, ok := f.AverageRating()
	require.True(t, ok)
	assert.InDelta(t, 4.5, avg, 1e-9)
	assert.Equal(t, 3, f.TotalViewings())
	assert.True(t, f.IsRewatched())
	require.NotNil(t, f.LastViewingDate())
	assert.True(t, f.LastViewingDate().Equal(second))
	assert.Equal(t, 1994, f.ReleaseYear())
}
