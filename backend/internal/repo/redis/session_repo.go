package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
)

const (
	sessionPrefix        = "sessions:"
	refreshPrefix        = "refresh:"
	sessionRefreshPrefix = "sessions:refresh:"
	userSessionsPrefix   = "sessions:user:"
)

// SessionRepo keeps sessions and refresh tokens in redis. Refresh tokens are stored
// only as sha256 digests.
type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, session authsvc.SessionRecord, refreshToken string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(refreshToken) == "" || session.UserID <= 0 {
		return authsvc.ErrInvalidInput
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		writeSession(ctx, pipe, session, digest(refreshToken))
		return nil
	})
	if err != nil {
		return fmt.Errorf("create redis session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sid string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return authsvc.SessionRecord{}, fmt.Errorf("get session hash: %w", err)
	}
	if len(values) == 0 {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}

	session, err := parseSessionRecord(values)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}
	session.SID = sid
	return session, nil
}

func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}
	return r.sessionByDigest(ctx, r.client, digest(refreshToken))
}

// RotateRefresh swaps the refresh token under WATCH, so two concurrent rotations of
// the same token cannot both succeed.
func (r *SessionRepo) RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	oldDigest := digest(oldRefreshToken)
	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		session, err := r.sessionByDigest(ctx, tx, oldDigest)
		if err != nil {
			return err
		}
		if sid != "" && sid != session.SID {
			return authsvc.ErrRefreshNotFound
		}
		session.ExpiresAt = expiresAt

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Del(ctx, refreshKey(oldDigest))
			writeSession(ctx, pipe, session, digest(newRefreshToken))
			return nil
		})
		return err
	}, refreshKey(oldDigest))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, goredis.TxFailedErr):
		return authsvc.ErrRefreshNotFound
	case errors.Is(err, authsvc.ErrRefreshNotFound):
		return err
	default:
		return fmt.Errorf("rotate refresh token: %w", err)
	}
}

func (r *SessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	userID, err := r.client.HGet(ctx, sessionKey(sid), "user_id").Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("load session for delete: %w", err)
	}
	refreshDigest, err := r.client.Get(ctx, sessionRefreshKey(sid)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("load session refresh pointer: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(sid), sessionRefreshKey(sid))
		if refreshDigest != "" {
			pipe.Del(ctx, refreshKey(refreshDigest))
		}
		if userID > 0 {
			pipe.SRem(ctx, userSessionsKey(userID), sid)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return authsvc.ErrInvalidInput
	}

	sids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	for _, sid := range sids {
		if err := r.DeleteSession(ctx, sid); err != nil {
			return err
		}
	}

	if err := r.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user sessions key: %w", err)
	}
	return nil
}

func (r *SessionRepo) sessionByDigest(ctx context.Context, c goredis.Cmdable, refreshDigest string) (authsvc.SessionRecord, error) {
	values, err := c.HGetAll(ctx, refreshKey(refreshDigest)).Result()
	if err != nil {
		return authsvc.SessionRecord{}, fmt.Errorf("get refresh hash: %w", err)
	}
	if len(values) == 0 {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}

	session, err := parseSessionRecord(values)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}
	session.SID = strings.TrimSpace(values["sid"])
	if session.SID == "" {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}
	return session, nil
}

func writeSession(ctx context.Context, pipe goredis.Pipeliner, session authsvc.SessionRecord, refreshDigest string) {
	ttl := ttlFor(session.ExpiresAt)
	fields := map[string]any{
		"user_id":    session.UserID,
		"role":       string(session.Role),
		"expires_at": session.ExpiresAt.Unix(),
	}

	pipe.HSet(ctx, sessionKey(session.SID), fields)
	pipe.Expire(ctx, sessionKey(session.SID), ttl)

	fields["sid"] = session.SID
	pipe.HSet(ctx, refreshKey(refreshDigest), fields)
	pipe.Expire(ctx, refreshKey(refreshDigest), ttl)

	pipe.Set(ctx, sessionRefreshKey(session.SID), refreshDigest, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.SID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)
}

func parseSessionRecord(values map[string]string) (authsvc.SessionRecord, error) {
	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil || userID <= 0 {
		return authsvc.SessionRecord{}, authsvc.ErrUnauthorized
	}

	expiresUnix, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return authsvc.SessionRecord{}, authsvc.ErrUnauthorized
	}

	return authsvc.SessionRecord{
		UserID:    userID,
		Role:      enums.Role(values["role"]),
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func sessionKey(sid string) string {
	return sessionPrefix + sid
}

func refreshKey(refreshDigest string) string {
	return refreshPrefix + refreshDigest
}

func sessionRefreshKey(sid string) string {
	return sessionRefreshPrefix + sid
}

func userSessionsKey(userID int64) string {
	return userSessionsPrefix + strconv.FormatInt(userID, 10)
}
