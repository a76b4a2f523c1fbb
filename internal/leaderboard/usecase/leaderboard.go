package usecase

import (
	"context"
	"fmt"
	"log"

	lbdomain "connect4-backend/internal/leaderboard/domain"
	userdomain "connect4-backend/internal/user/domain"
)

// DefaultSize is the number of lines shown on the leaderboard.
const DefaultSize = 9

// Rankings is the part of the user directory the leaderboard reads.
type Rankings interface {
	TopByRatio(ctx context.Context, limit int) ([]userdomain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]userdomain.User, error)
}

// RankingCache stores ratios by user id. Warm reports whether it has been filled.
type RankingCache interface {
	Warm(ctx context.Context) (bool, error)
	Set(ctx context.Context, scores map[string]float64) error
	Top(ctx context.Context, n int) ([]string, error)
}

type LeaderboardService struct {
	users Rankings
	cache RankingCache
	size  int
}

func NewLeaderboardService(users Rankings, size int) *LeaderboardService {
	if size <= 0 {
		size = DefaultSize
	}
	return &LeaderboardService{users: users, size: size}
}

// SetCache serves the leaderboard from cache.
func (s *LeaderboardService) SetCache(cache RankingCache) {
	s.cache = cache
}

// Top returns the best players by ratio. Cache failures fall back to the database.
func (s *LeaderboardService) Top(ctx context.Context) ([]lbdomain.Entry, error) {
	if s.cache != nil {
		entries, err := s.fromCache(ctx)
		if err == nil {
			return entries, nil
		}
		log.Printf("[Leaderboard] Cache unavailable, reading database: %v", err)
	}

	users, err := s.users.TopByRatio(ctx, s.size)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return toEntries(users), nil
}

func (s *LeaderboardService) fromCache(ctx context.Context) ([]lbdomain.Entry, error) {
	warm, err := s.cache.Warm(ctx)
	if err != nil {
		return nil, err
	}
	if !warm {
		users, err := s.users.TopByRatio(ctx, s.size)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, scores(users)); err != nil {
			return nil, err
		}
		return toEntries(users), nil
	}

	ids, err := s.cache.Top(ctx, s.size)
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*userdomain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	ordered := make([]userdomain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, *u)
		}
	}
	return toEntries(ordered), nil
}

// Refresh rescores the given users. A cold cache is left alone; the next read fills
// it from the database.
func (s *LeaderboardService) Refresh(ctx context.Context, userIDs ...string) error {
	if s.cache == nil || len(userIDs) == 0 {
		return nil
	}
	warm, err := s.cache.Warm(ctx)
	if err != nil || !warm {
		return err
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, scores(users))
}

func scores(users []userdomain.User) map[string]float64 {
	out := make(map[string]float64, len(users))
	for i := range users {
		out[users[i].ID] = users[i].Ratio()
	}
	return out
}

func toEntries(users []userdomain.User) []lbdomain.Entry {
	out := make([]lbdomain.Entry, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, lbdomain.Entry{
			Username:  u.Username,
			Ratio:     u.Ratio(),
			Victories: u.Victories,
			Defeats:   u.Defeats,
		})
	}
	return out
}
