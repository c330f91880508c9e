package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
	"github.com/pbaille/cinelog/internal/stats"
	"golang.org/x/text/language"
)

func (s *Server) listViewings(w http.ResponseWriter, r *http.Request) {
	filter, err := viewingFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	viewings, err := journal.List(r.Context(), s.repo, filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	if viewings == nil {
		viewings = []domain.ViewingEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"viewings": viewings})
}

func (s *Server) updateViewing(w http.ResponseWriter, r *http.Request) {
	var u domain.ViewingUpdate
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := journal.UpdateViewing(r.Context(), s.repo, r.PathValue("id"), u)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) deleteViewing(w http.ResponseWriter, r *http.Request) {
	if err := journal.DeleteViewing(r.Context(), s.repo, r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// viewingFilter reads film_id, from, to, rating and limit from the query string
func viewingFilter(q url.Values) (domain.ViewingFilter, error) {
	filter := domain.ViewingFilter{FilmID: q.Get("film_id")}

	if v := q.Get("from"); v != "" {
		t, err := journal.ParseDate(v, false)
		if err != nil {
			return filter, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := journal.ParseDate(v, true)
		if err != nil {
			return filter, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = &t
	}
	if v := q.Get("rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("invalid rating: %w", err)
		}
		filter.Rating = &n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = n
	}
	return filter, nil
}

func parseLang(v string) language.Tag {
	return stats.ParseLanguage(v)
}
