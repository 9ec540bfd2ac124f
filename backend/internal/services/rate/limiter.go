package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const swipeScope = "swipes"

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Window is one fixed counting window. A Limit of zero disables it.
type Window struct {
	Name  string
	Span  time.Duration
	Limit int
}

// Limiter applies every window to each actor independently.
type Limiter struct {
	store   WindowStore
	scope   string
	windows []Window
}

// NewLimiter builds the swipe limiter with a one minute and a ten second window.
func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	return NewWindowLimiter(store, swipeScope,
		Window{Name: "min", Span: time.Minute, Limit: perMinute},
		Window{Name: "10s", Span: 10 * time.Second, Limit: per10Sec},
	)
}

func NewWindowLimiter(store WindowStore, scope string, windows ...Window) *Limiter {
	active := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Limit > 0 && w.Span > 0 {
			active = append(active, w)
		}
	}
	return &Limiter{store: store, scope: scope, windows: active}
}

// AllowSwipe counts one swipe by the actor and reports whether it fits every window.
// A blocked swipe still counts, so hammering keeps the window closed.
func (l *Limiter) AllowSwipe(ctx context.Context, actorID int64) (int64, bool, error) {
	if err := l.check(actorID); err != nil {
		return 0, false, err
	}

	var retryAfterSec int64
	for _, w := range l.windows {
		count, ttl, err := l.store.IncrementWindow(ctx, l.key(w, actorID), w.Span)
		if err != nil {
			return 0, false, fmt.Errorf("count %s window: %w", w.Name, err)
		}
		if count > int64(w.Limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, retryAfterSec == 0, nil
}

// RetryAfter reports how long the actor must wait without consuming a swipe.
func (l *Limiter) RetryAfter(ctx context.Context, actorID int64) (int64, error) {
	if err := l.check(actorID); err != nil {
		return 0, err
	}

	var retryAfterSec int64
	for _, w := range l.windows {
		count, ttl, err := l.store.WindowState(ctx, l.key(w, actorID))
		if err != nil {
			return 0, fmt.Errorf("read %s window: %w", w.Name, err)
		}
		if count >= int64(w.Limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func (l *Limiter) check(actorID int64) error {
	if actorID <= 0 {
		return fmt.Errorf("invalid actor id")
	}
	if l.store == nil {
		return fmt.Errorf("rate limiter store is nil")
	}
	return nil
}

func (l *Limiter) key(w Window, actorID int64) string {
	return "rate:" + l.scope + ":" + w.Name + ":" + strconv.FormatInt(actorID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64((d + time.Second - 1) / time.Second)
	return max(sec, 1)
}
