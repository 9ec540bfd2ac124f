package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

const (
	MinRefreshTTL = 24 * time.Hour
	MaxRefreshTTL = 90 * 24 * time.Hour
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord, refreshToken string) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
	RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// AccountChecker answers accountExists for the identity collaborator.
type AccountChecker interface {
	AccountExists(ctx context.Context, userID int64) (bool, error)
}

// Service issues and validates credentials. With a nil SessionStore access tokens
// are validated statelessly against the account catalog and refresh/logout are
// unavailable.
type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	accounts   AccountChecker
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, accounts AccountChecker, refreshTTL time.Duration) *Service {
	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		accounts:   accounts,
		refreshTTL: clampRefreshTTL(refreshTTL),
		now:        time.Now,
	}
}

// Issue opens a session for an existing account.
func (s *Service) Issue(ctx context.Context, userID int64) (Tokens, error) {
	if userID <= 0 {
		return Tokens{}, ErrInvalidInput
	}
	if err := s.requireAccount(ctx, userID, ErrUnknownAccount); err != nil {
		return Tokens{}, err
	}

	actor := Identity{UserID: userID, Role: enums.RoleUser}
	sid, err := NewSessionID()
	if err != nil {
		return Tokens{}, fmt.Errorf("generate session id: %w", err)
	}
	actor.SID = sid

	var refreshToken string
	if s.sessions != nil {
		if refreshToken, err = NewRefreshToken(); err != nil {
			return Tokens{}, fmt.Errorf("generate refresh token: %w", err)
		}
		session := SessionRecord{
			SID:       actor.SID,
			UserID:    actor.UserID,
			Role:      actor.Role,
			ExpiresAt: s.now().Add(s.refreshTTL),
		}
		if err := s.sessions.Create(ctx, session, refreshToken); err != nil {
			return Tokens{}, fmt.Errorf("create session: %w", err)
		}
	}

	return s.tokensFor(actor, refreshToken)
}

// Refresh rotates a refresh token. The presented token is single-use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Tokens{}, ErrInvalidInput
	}
	if s.sessions == nil {
		return Tokens{}, ErrSessionsOff
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if errors.Is(err, ErrRefreshNotFound) {
		return Tokens{}, ErrUnauthorized
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("get refresh token session: %w", err)
	}
	if s.now().After(session.ExpiresAt) {
		return Tokens{}, ErrUnauthorized
	}

	nextRefresh, err := NewRefreshToken()
	if err != nil {
		return Tokens{}, fmt.Errorf("generate refresh token: %w", err)
	}
	err = s.sessions.RotateRefresh(ctx, session.SID, refreshToken, nextRefresh, s.now().Add(s.refreshTTL))
	if errors.Is(err, ErrRefreshNotFound) {
		return Tokens{}, ErrUnauthorized
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return s.tokensFor(Identity{UserID: session.UserID, SID: session.SID, Role: session.Role}, nextRefresh)
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if s.sessions == nil {
		return ErrSessionsOff
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if s.sessions == nil {
		return ErrSessionsOff
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}

// ValidateAccessToken verifies the token and then either the backing session or,
// without a session store, that the account still exists.
func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	if s.sessions == nil {
		if err := s.requireAccount(ctx, claims.UserID, ErrUnauthorized); err != nil {
			return AccessClaims{}, err
		}
		return claims, nil
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if errors.Is(err, ErrSessionNotFound) {
		return AccessClaims{}, ErrUnauthorized
	}
	if err != nil {
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != claims.UserID || session.Role != claims.Role || s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

// CurrentActor resolves a bearer credential to the acting account id.
func (s *Service) CurrentActor(ctx context.Context, credential string) (int64, error) {
	claims, err := s.ValidateAccessToken(ctx, credential)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (s *Service) requireAccount(ctx context.Context, userID int64, missing error) error {
	if s.accounts == nil {
		return nil
	}
	exists, err := s.accounts.AccountExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return missing
	}
	return nil
}

func (s *Service) tokensFor(actor Identity, refreshToken string) (Tokens, error) {
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(actor.UserID, actor.SID, actor.Role)
	if err != nil {
		return Tokens{}, fmt.Errorf("generate access token: %w", err)
	}
	return Tokens{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: expiresAt,
		Actor:         actor,
	}, nil
}

func clampRefreshTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl < MinRefreshTTL:
		return MinRefreshTTL
	case ttl > MaxRefreshTTL:
		return MaxRefreshTTL
	default:
		return ttl
	}
}
