package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

type matchRepo interface {
	Save(ctx context.Context, match *entity.Match, creditAccount string) error
}

// MatchResults persists finished games: the match archive and the winner's score.
// Failures are logged and never reach the players.
type MatchResults struct {
	logger  *slog.Logger
	users   userRepo
	matches matchRepo
}

// NewMatchResults builds a recorder. matches may be nil when no archive is configured.
func NewMatchResults(logger *slog.Logger, users userRepo, matches matchRepo) *MatchResults {
	return &MatchResults{
		logger:  logger.With("component", "match_results"),
		users:   users,
		matches: matches,
	}
}

func (that *MatchResults) RecordMatch(ctx context.Context, match *entity.Match) {
	log := that.logger.With("method", "RecordMatch", "room_code", match.RoomCode, "match_id", match.ID)

	account := that.winnerAccount(ctx, log, match)

	var credit string
	if account != nil {
		credit = account.Username
	}

	if that.matches != nil {
		if err := that.matches.Save(ctx, match, credit); err != nil {
			log.Error("failed to archive match", "error", err)
		}
	}

	if account == nil {
		return
	}

	if err := that.users.IncrementScore(ctx, account.Username, 1); err != nil {
		log.Error("failed to update winner score", "error", err)
		return
	}

	log.Info("match recorded", "winner", account.Username, "reason", match.Reason)
}

// winnerAccount returns the registered account that won, or nil for a tie or a guest.
func (that *MatchResults) winnerAccount(ctx context.Context, log *slog.Logger, match *entity.Match) *entity.User {
	winner := match.WinningPlayer()
	if winner == nil || that.users == nil {
		return nil
	}

	user, err := that.users.GetByUsername(ctx, winner.Username)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil
	}

	if err != nil {
		log.Error("failed to look up winner", "error", err)
		return nil
	}

	// guests may share a display name with an account
	if user.UserID != winner.ID {
		return nil
	}

	return user
}
