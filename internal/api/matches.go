package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/service"
)

// MatchesHandler exposes the match service. Every endpoint accepts a
// min_score query parameter; the configured default applies when absent.
type MatchesHandler struct {
	Service *service.MatchService
}

// All handles GET /api/matches.
func (h *MatchesHandler) All(w http.ResponseWriter, r *http.Request) {
	minScore, ok := h.minScore(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	result, err := h.Service.AllMatches(r.Context(), minScore, limit)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// ForLost handles GET /api/matches/lost/{id}.
func (h *MatchesHandler) ForLost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "lost item")
	if !ok {
		return
	}
	minScore, ok := h.minScore(w, r)
	if !ok {
		return
	}

	result, err := h.Service.MatchesForLostItem(r.Context(), id, minScore)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// ForFound handles GET /api/matches/found/{id}.
func (h *MatchesHandler) ForFound(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "found item")
	if !ok {
		return
	}
	minScore, ok := h.minScore(w, r)
	if !ok {
		return
	}

	result, err := h.Service.MatchesForFoundItem(r.Context(), id, minScore)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// MyLost handles GET /api/matches/my-lost-items.
func (h *MatchesHandler) MyLost(w http.ResponseWriter, r *http.Request) {
	minScore, ok := h.minScore(w, r)
	if !ok {
		return
	}

	result, err := h.Service.UserLostItemMatches(r.Context(), GetClaims(r.Context()).UserID, minScore)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// MyFound handles GET /api/matches/my-found-items.
func (h *MatchesHandler) MyFound(w http.ResponseWriter, r *http.Request) {
	minScore, ok := h.minScore(w, r)
	if !ok {
		return
	}

	result, err := h.Service.UserFoundItemMatches(r.Context(), GetClaims(r.Context()).UserID, minScore)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

func (h *MatchesHandler) minScore(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("min_score")
	if v == "" {
		return h.Service.DefaultMinScore(), true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 100 {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("min_score must be an integer between 0 and 100, got %q", v))
		return 0, false
	}
	return n, true
}
