package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/repository"
)

type matchReader interface {
	Recent(ctx context.Context, limit int) ([]*entity.Match, error)
	Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

type matchHandler struct {
	logger      *slog.Logger
	matches     matchReader
	recentLimit int
}

func newMatchHandler(logger *slog.Logger, matches matchReader, recentLimit int) *matchHandler {
	return &matchHandler{
		logger:      logger.With("component", "match_handler"),
		matches:     matches,
		recentLimit: recentLimit,
	}
}

func (that *matchHandler) recent(w http.ResponseWriter, r *http.Request) {
	if that.matches == nil {
		writeError(w, http.StatusServiceUnavailable, "match archive is disabled")
		return
	}

	limit, ok := parseLimit(w, r, that.recentLimit)
	if !ok {
		return
	}

	matches, err := that.matches.Recent(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to list recent matches", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")

		return
	}

	writeJSON(w, http.StatusOK, matches)
}

func (that *matchHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if that.matches == nil {
		writeError(w, http.StatusServiceUnavailable, "match archive is disabled")
		return
	}

	limit, ok := parseLimit(w, r, 10)
	if !ok {
		return
	}

	entries, err := that.matches.Leaderboard(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to read leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")

		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}

	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
