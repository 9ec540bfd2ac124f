package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mini.Close()
	})
	return client, mini
}

func TestRateRepoWindowExpires(t *testing.T) {
	client, mini := newTestClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, ttl, err := repo.IncrementWindow(ctx, "rate:test", 10*time.Second)
		if err != nil {
			t.Fatalf("increment window: %v", err)
		}
		if count != i {
			t.Fatalf("unexpected count: got %d want %d", count, i)
		}
		if ttl <= 0 || ttl > 10*time.Second {
			t.Fatalf("unexpected ttl: %s", ttl)
		}
	}

	mini.FastForward(11 * time.Second)

	count, _, err := repo.WindowState(ctx, "rate:test")
	if err != nil {
		t.Fatalf("window state: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired window, got count %d", count)
	}
}

func TestPreferenceCacheRoundTripAndMiss(t *testing.T) {
	client, mini := newTestClient(t)
	repo := NewPreferenceCacheRepo(client, time.Minute)
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, 1); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	pref := model.PreferenceFilter{Locations: []enums.JobLocation{enums.JobLocationRemote}}
	if err := repo.Set(ctx, 1, pref); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := repo.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got.Locations) != 1 || got.Locations[0] != enums.JobLocationRemote {
		t.Fatalf("unexpected cached preference: %+v", got)
	}

	mini.FastForward(2 * time.Minute)
	if _, ok, _ := repo.Get(ctx, 1); ok {
		t.Fatalf("expected cached preference to expire")
	}

	if err := repo.Set(ctx, 1, pref); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Invalidate(ctx, 1); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, 1); ok {
		t.Fatalf("expected invalidated preference to miss")
	}
}

func TestMatchEventRepoPublishesAndCapsHistory(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewMatchEventRepo(client, "test:matches")
	ctx := context.Background()

	sub := client.Subscribe(ctx, repo.Channel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	event := model.MatchEvent{ID: "evt-1", UserID: 1, ApplicationID: 1000, OwnerID: 10, CompanyID: 100}
	if err := repo.Publish(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	if err != nil {
		t.Fatalf("receive message: %v", err)
	}
	if msg.Channel != "test:matches" || msg.Payload == "" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	for i := 0; i < recentMatchesCap+5; i++ {
		if err := repo.Publish(ctx, model.MatchEvent{UserID: 1, ApplicationID: int64(2000 + i), OwnerID: 10}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	recent, err := repo.Recent(ctx, 1, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != recentMatchesCap {
		t.Fatalf("unexpected history size: got %d want %d", len(recent), recentMatchesCap)
	}
	if recent[0].ApplicationID != int64(2000+recentMatchesCap+4) {
		t.Fatalf("unexpected newest event: %+v", recent[0])
	}

	ownerRecent, err := repo.Recent(ctx, 10, 3)
	if err != nil {
		t.Fatalf("owner recent: %v", err)
	}
	if len(ownerRecent) != 3 {
		t.Fatalf("unexpected owner history size: got %d want 3", len(ownerRecent))
	}
}

func TestSessionRepoRotateAndDelete(t *testing.T) {
	client, mini := newTestClient(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	session := authsvc.SessionRecord{SID: "sid-1", UserID: 7, Role: "user", ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(ctx, session, "refresh-a"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if mini.Exists(refreshPrefix + "refresh-a") {
		t.Fatalf("raw refresh token must not be used as a key")
	}

	got, err := repo.GetByRefreshToken(ctx, "refresh-a")
	if err != nil {
		t.Fatalf("get by refresh: %v", err)
	}
	if got.SID != "sid-1" || got.UserID != 7 {
		t.Fatalf("unexpected session: got %+v", got)
	}

	if err := repo.RotateRefresh(ctx, "sid-1", "refresh-a", "refresh-b", time.Now().Add(2*time.Hour)); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := repo.GetByRefreshToken(ctx, "refresh-a"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("unexpected old token result: got %v want %v", err, authsvc.ErrRefreshNotFound)
	}
	if err := repo.RotateRefresh(ctx, "sid-1", "refresh-a", "refresh-c", time.Now().Add(time.Hour)); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("unexpected replay result: got %v want %v", err, authsvc.ErrRefreshNotFound)
	}

	if err := repo.DeleteAllForUser(ctx, 7); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if _, err := repo.GetSession(ctx, "sid-1"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("unexpected session after delete: got %v want %v", err, authsvc.ErrSessionNotFound)
	}
	if _, err := repo.GetByRefreshToken(ctx, "refresh-b"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("unexpected refresh after delete: got %v want %v", err, authsvc.ErrRefreshNotFound)
	}
}

func TestSessionRepoRejectsInvalidInput(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewSessionRepo(client)

	err := repo.Create(context.Background(), authsvc.SessionRecord{SID: "", UserID: 1, ExpiresAt: time.Now().Add(time.Minute)}, "tok")
	if !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("unexpected error: got %v want %v", err, authsvc.ErrInvalidInput)
	}
}
