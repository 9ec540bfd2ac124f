package auth

import (
	"errors"
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
	ErrRefreshNotFound = errors.New("refresh token not found")
	ErrUnknownAccount  = errors.New("unknown account")
	ErrSessionsOff     = errors.New("session store is not configured")
)

// SessionRecord is what the session store keeps per login.
type SessionRecord struct {
	SID       string
	UserID    int64
	Role      enums.Role
	ExpiresAt time.Time
}

// AccessClaims are the verified contents of an access token.
type AccessClaims struct {
	UserID    int64
	SID       string
	Role      enums.Role
	ExpiresAt time.Time
}

func (c AccessClaims) Identity() Identity {
	return Identity{UserID: c.UserID, SID: c.SID, Role: c.Role}
}

type Tokens struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	Actor         Identity
}
