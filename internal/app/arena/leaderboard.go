package arena

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Standing struct {
	Fighter string `json:"fighter"`
	Wins    int64  `json:"wins"`
}

// Leaderboard counts wins per fighter in a redis sorted set. A nil client makes
// every call a no-op, so the arena keeps working when redis is down.
type Leaderboard struct {
	client *redis.Client
	key    string
}

func NewLeaderboard(client *redis.Client, key string) *Leaderboard {
	return &Leaderboard{client: client, key: key}
}

func (l *Leaderboard) RecordWin(ctx context.Context, member string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if err := l.client.ZIncrBy(ctx, l.key, 1, member).Err(); err != nil {
		return fmt.Errorf("record win for %s: %w", member, err)
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Standing, error) {
	if l == nil || l.client == nil {
		return []Standing{}, nil
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	out := make([]Standing, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, Standing{Fighter: member, Wins: int64(z.Score)})
	}
	return out, nil
}
