package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

const (
	recentMatchesPrefix = "matches:recent:"
	recentMatchesCap    = 50
)

// MatchEventRepo publishes match events on a channel and keeps a short per-account
// history of the latest ones.
type MatchEventRepo struct {
	client  *goredis.Client
	channel string
}

func NewMatchEventRepo(client *goredis.Client, channel string) *MatchEventRepo {
	if channel == "" {
		channel = "linkr:matches"
	}
	return &MatchEventRepo{client: client, channel: channel}
}

func (r *MatchEventRepo) Publish(ctx context.Context, event model.MatchEvent) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode match event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Publish(ctx, r.channel, payload)
	for _, accountID := range []int64{event.UserID, event.OwnerID} {
		if accountID <= 0 {
			continue
		}
		pipe.LPush(ctx, recentMatchesKey(accountID), payload)
		pipe.LTrim(ctx, recentMatchesKey(accountID), 0, recentMatchesCap-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish match event: %w", err)
	}
	return nil
}

// Recent returns the latest events for the account, newest first.
func (r *MatchEventRepo) Recent(ctx context.Context, accountID int64, limit int) ([]model.MatchEvent, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if limit <= 0 || limit > recentMatchesCap {
		limit = recentMatchesCap
	}

	values, err := r.client.LRange(ctx, recentMatchesKey(accountID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}

	items := make([]model.MatchEvent, 0, len(values))
	for _, value := range values {
		var event model.MatchEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			return nil, fmt.Errorf("decode match event: %w", err)
		}
		items = append(items, event)
	}
	return items, nil
}

func (r *MatchEventRepo) Channel() string {
	return r.channel
}

func recentMatchesKey(accountID int64) string {
	return recentMatchesPrefix + strconv.FormatInt(accountID, 10)
}
