// Package catalog converts TMDB movie documents into films.
package catalog

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pbaille/cinelog/internal/domain"
	"golang.org/x/text/language"
)

// maxCast bounds how many billed cast members are kept on a film
const maxCast = 10

// Movie is a TMDB movie as returned by search results or the details endpoint
type Movie struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"`
	PosterPath    *string  `json:"poster_path"`
	GenreIDs      []int    `json:"genre_ids"`
	Genres        []Genre  `json:"genres"`
	Runtime       *int     `json:"runtime"`
	Credits       *Credits `json:"credits"`
}

// Genre is a named genre on a details document. Search results carry
// only GenreIDs.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits is the appended credits block of a details document
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one billed actor; lower Order means higher billing
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is one crew credit. A film's director is the first
// member whose Job is "Director".
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type searchResponse struct {
	Results []Movie `json:"results"`
}

// Decode reads either a single movie document or a search response
func Decode(r io.Reader) ([]Movie, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if _, ok := fields["results"]; ok {
		var resp searchResponse
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&resp); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return resp.Results, nil
	}

	var m Movie
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode movie: %w", err)
	}
	if m.ID == 0 {
		return nil, fmt.Errorf("decode movie: missing id")
	}
	return []Movie{m}, nil
}

// Film converts m into a film with genre names in lang
func (m Movie) Film(lang language.Tag) domain.Film {
	f := domain.Film{
		ExternalID: m.ID,
		Title:      m.Title,
		PosterPath: m.PosterPath,
	}
	if f.Title == "" {
		f.Title = m.OriginalTitle
	}
	if o := strings.TrimSpace(m.Overview); o != "" {
		f.Overview = &o
	}
	if t, err := time.Parse(time.DateOnly, m.ReleaseDate); err == nil {
		f.ReleaseDate = &t
	}

	ids := m.GenreIDs
	if len(m.Genres) > 0 {
		ids = ids[:0:0]
		for _, g := range m.Genres {
			ids = append(ids, g.ID)
		}
	}
	for _, id := range ids {
		f.Genres = append(f.Genres, GenreName(id, lang))
	}

	if m.Credits != nil {
		for _, c := range m.Credits.Crew {
			if c.Job == "Director" {
				name := c.Name
				f.Director = &name
				break
			}
		}

		cast := slices.Clone(m.Credits.Cast)
		slices.SortStableFunc(cast, func(a, b CastMember) int { return cmp.Compare(a.Order, b.Order) })
		for i, c := range cast {
			if i == maxCast {
				break
			}
			f.Cast = append(f.Cast, c.Name)
		}
	}

	return f
}
