package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	redrepo "github.com/TLN1/linkr-back/backend/internal/repo/redis"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
)

type accountsStub map[int64]bool

func (s accountsStub) AccountExists(_ context.Context, userID int64) (bool, error) {
	return s[userID], nil
}

func TestRefreshRotation(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	issued, err := svc.Issue(ctx, 1001)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	refreshRes, err := svc.Refresh(ctx, issued.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshRes.RefreshToken == issued.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(ctx, issued.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old refresh token should be unauthorized, got err=%v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, refreshRes.AccessToken); err != nil {
		t.Fatalf("new access token validation failed: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	issued, err := svc.Issue(ctx, 2002)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, issued.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, issued.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func TestIssueRequiresExistingAccount(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	if _, err := svc.Issue(context.Background(), 9999); !errors.Is(err, authsvc.ErrUnknownAccount) {
		t.Fatalf("expected unknown account, got err=%v", err)
	}
}

func TestCurrentActorWithoutSessionStore(t *testing.T) {
	jwtManager := newJWT("test-secret", "linkr")
	svc := authsvc.NewService(jwtManager, nil, accountsStub{7: true}, 0)

	ctx := context.Background()
	issued, err := svc.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.RefreshToken != "" {
		t.Fatalf("expected no refresh token without a session store")
	}

	actorID, err := svc.CurrentActor(ctx, issued.AccessToken)
	if err != nil {
		t.Fatalf("current actor: %v", err)
	}
	if actorID != 7 {
		t.Fatalf("unexpected actor: got %d want 7", actorID)
	}

	if _, err := svc.CurrentActor(ctx, "garbage"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got err=%v", err)
	}
	if err := svc.Logout(ctx, "sid"); !errors.Is(err, authsvc.ErrSessionsOff) {
		t.Fatalf("expected sessions off, got err=%v", err)
	}
}

func TestStatelessValidationRechecksAccount(t *testing.T) {
	accounts := accountsStub{7: true}
	svc := authsvc.NewService(newJWT("test-secret", "linkr"), nil, accounts, 0)

	ctx := context.Background()
	issued, err := svc.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	delete(accounts, 7)
	if _, err := svc.ValidateAccessToken(ctx, issued.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("unexpected error for removed account: got %v want %v", err, authsvc.ErrUnauthorized)
	}
}

func TestParseAccessTokenRejectsForeignIssuer(t *testing.T) {
	foreign := newJWT("test-secret", "someone-else")
	token, _, err := foreign.GenerateAccessToken(7, "sid-1", enums.RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := newJWT("test-secret", "linkr").ParseAccessToken(token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("unexpected error: got %v want %v", err, authsvc.ErrUnauthorized)
	}

	claims, err := foreign.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse with matching issuer: %v", err)
	}
	if claims.UserID != 7 || claims.SID != "sid-1" || claims.Role != enums.RoleUser {
		t.Fatalf("unexpected claims: got %+v", claims)
	}
}

func newJWT(secret, issuer string) *authsvc.JWTManager {
	return authsvc.NewJWTManager(authsvc.TokenConfig{Secret: secret, Issuer: issuer, AccessTTL: 15 * time.Minute})
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	repo := redrepo.NewSessionRepo(client)
	jwtManager := newJWT("test-secret", "linkr")
	svc := authsvc.NewService(jwtManager, repo, accountsStub{1001: true, 2002: true}, 45*24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, cleanup
}
