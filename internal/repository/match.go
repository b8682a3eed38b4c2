package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

const (
	matchKeyPrefix = "match:"
	recentKey      = "matches:recent"
	leaderboardKey = "leaderboard"
)

type MatchRepository interface {
	// Save archives match and credits creditAccount with a leaderboard win.
	// An empty creditAccount leaves the leaderboard untouched.
	Save(ctx context.Context, match *entity.Match, creditAccount string) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	Recent(ctx context.Context, limit int) ([]*entity.Match, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

type dbMatch struct {
	client      *redis.Client
	recentLimit int64
}

// NewMatchRepository stores matches in redis and keeps the newest recentLimit ids in a list.
func NewMatchRepository(client *redis.Client, recentLimit int) MatchRepository {
	if recentLimit <= 0 {
		recentLimit = 50
	}

	return &dbMatch{
		client:      client,
		recentLimit: int64(recentLimit),
	}
}

func (that *dbMatch) Save(ctx context.Context, match *entity.Match, creditAccount string) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, matchKeyPrefix+match.ID, matchJSON, 0)
		pipe.LPush(ctx, recentKey, match.ID)
		pipe.LTrim(ctx, recentKey, 0, that.recentLimit-1)

		if creditAccount != "" {
			pipe.ZIncrBy(ctx, leaderboardKey, 1, creditAccount)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var match entity.Match
	if err = json.Unmarshal([]byte(response), &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &match, nil
}

// Recent returns up to limit matches, newest first.
func (that *dbMatch) Recent(ctx context.Context, limit int) ([]*entity.Match, error) {
	if limit <= 0 || int64(limit) > that.recentLimit {
		limit = int(that.recentLimit)
	}

	ids, err := that.client.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	matches := make([]*entity.Match, 0, len(ids))
	if len(ids) == 0 {
		return matches, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, matchKeyPrefix+id)
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load recent matches: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var match entity.Match
		if err = json.Unmarshal([]byte(raw), &match); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}

		matches = append(matches, &match)
	}

	return matches, nil
}

// Leaderboard returns the players with the most archived wins.
func (that *dbMatch) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	scores, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for _, score := range scores {
		username, _ := score.Member.(string)
		entries = append(entries, LeaderboardEntry{Username: username, Wins: int(score.Score)})
	}

	return entries, nil
}
