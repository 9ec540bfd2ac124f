package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/TLN1/linkr-back/backend/internal/repo/redis"
)

func TestLimiterBlocksOn10SecondWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 100, 2)

	ctx := context.Background()
	actorID := int64(42)

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.AllowSwipe(ctx, actorID)
		if err != nil {
			t.Fatalf("allow swipe #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowSwipe(ctx, actorID)
	if err != nil {
		t.Fatalf("allow swipe #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third action in 10s window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	currentRetry, err := limiter.RetryAfter(ctx, actorID)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.AllowSwipe(ctx, actorID)
	if err != nil {
		t.Fatalf("allow swipe after 10s window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 3, 100)

	ctx := context.Background()
	actorID := int64(77)

	for i := 0; i < 3; i++ {
		retryAfter, allowed, err := limiter.AllowSwipe(ctx, actorID)
		if err != nil {
			t.Fatalf("allow swipe #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowSwipe(ctx, actorID)
	if err != nil {
		t.Fatalf("allow swipe #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on fourth action in minute window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}

func TestLimiterWindowsArePerActor(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 100, 1)
	ctx := context.Background()

	if _, allowed, err := limiter.AllowSwipe(ctx, 1); err != nil || !allowed {
		t.Fatalf("first actor first swipe: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowSwipe(ctx, 2); err != nil || !allowed {
		t.Fatalf("second actor must not share the first actor's window: allowed=%v err=%v", allowed, err)
	}
	if _, _, err := limiter.AllowSwipe(ctx, 0); err == nil {
		t.Fatalf("expected error for invalid actor id")
	}
}

func TestWindowLimiterSkipsDisabledWindows(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewWindowLimiter(redrepo.NewRateRepo(client), "probe",
		Window{Name: "off", Span: time.Minute, Limit: 0},
		Window{Name: "1s", Span: time.Second, Limit: 1},
	)
	ctx := context.Background()

	if _, allowed, err := limiter.AllowSwipe(ctx, 5); err != nil || !allowed {
		t.Fatalf("first swipe: allowed=%v err=%v", allowed, err)
	}
	if mr.Exists("rate:probe:off:5") {
		t.Fatalf("disabled window must not be counted")
	}
	if !mr.Exists("rate:probe:1s:5") {
		t.Fatalf("expected counter for the active window")
	}

	retryAfter, allowed, err := limiter.AllowSwipe(ctx, 5)
	if err != nil {
		t.Fatalf("second swipe: %v", err)
	}
	if allowed || retryAfter != 1 {
		t.Fatalf("unexpected result: got allowed=%v retry_after=%d want allowed=false retry_after=1", allowed, retryAfter)
	}
}
