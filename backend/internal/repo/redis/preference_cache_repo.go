package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

const preferencePrefix = "pref:"

// PreferenceCacheRepo caches saved preference filters as JSON under pref:<user>.
type PreferenceCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewPreferenceCacheRepo(client *goredis.Client, ttl time.Duration) *PreferenceCacheRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PreferenceCacheRepo{client: client, ttl: ttl}
}

// Get reports ok=false on a cache miss.
func (r *PreferenceCacheRepo) Get(ctx context.Context, userID int64) (model.PreferenceFilter, bool, error) {
	if r.client == nil {
		return model.PreferenceFilter{}, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, preferenceKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.PreferenceFilter{}, false, nil
		}
		return model.PreferenceFilter{}, false, fmt.Errorf("get cached preference: %w", err)
	}

	var pref model.PreferenceFilter
	if err := json.Unmarshal(raw, &pref); err != nil {
		return model.PreferenceFilter{}, false, fmt.Errorf("decode cached preference: %w", err)
	}
	return pref, true, nil
}

func (r *PreferenceCacheRepo) Set(ctx context.Context, userID int64, pref model.PreferenceFilter) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	raw, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}
	if err := r.client.Set(ctx, preferenceKey(userID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cached preference: %w", err)
	}
	return nil
}

func (r *PreferenceCacheRepo) Invalidate(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, preferenceKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cached preference: %w", err)
	}
	return nil
}

func preferenceKey(userID int64) string {
	return preferencePrefix + strconv.FormatInt(userID, 10)
}
