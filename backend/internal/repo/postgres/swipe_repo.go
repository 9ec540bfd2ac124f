package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool, now: time.Now}
}

// Upsert inserts or overwrites the record for the key and reports the direction it
// replaced. The previous row is locked before it is rewritten, so writers on the same
// key serialize while other keys proceed. When two first swipes race on a new key the
// loser of the insert re-reads the winner's row, so only one of them reports no
// previous direction.
func (r *SwipeRepo) Upsert(ctx context.Context, rec model.SwipeRecord) (model.UpsertOutcome, error) {
	if rec.ActorID <= 0 || rec.TargetID <= 0 || !rec.Direction.Valid() {
		return model.UpsertOutcome{}, fmt.Errorf("invalid swipe payload")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = r.now().UTC()
	}

	var out model.UpsertOutcome
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		previous, found, err := lockDirection(ctx, tx, rec.Key())
		if err != nil {
			return err
		}

		if !found {
			inserted, err := insertSwipe(ctx, tx, rec)
			if err != nil {
				return err
			}
			if inserted != nil {
				out.Record = *inserted
				return nil
			}
			// A concurrent first swipe committed the row between the read and the insert.
			if previous, found, err = lockDirection(ctx, tx, rec.Key()); err != nil {
				return err
			}
			if !found {
				return classify("upsert swipe", fmt.Errorf("swipe row vanished after insert conflict"))
			}
		}

		stored, err := updateSwipe(ctx, tx, rec)
		if err != nil {
			return err
		}
		out.Record = stored
		out.Previous = &previous
		return nil
	})
	if err != nil {
		return model.UpsertOutcome{}, err
	}

	return out, nil
}

func lockDirection(ctx context.Context, tx pgx.Tx, key model.SwipeKey) (enums.SwipeDirection, bool, error) {
	var dir enums.SwipeDirection
	err := tx.QueryRow(ctx, `
SELECT direction
FROM swipes
WHERE actor_id = $1 AND target_id = $2 AND target_kind = $3
FOR UPDATE
`, key.ActorID, key.TargetID, string(key.TargetKind)).Scan(&dir)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("lock swipe", err)
	}
	return dir, true, nil
}

// insertSwipe returns nil when another transaction already holds the key.
func insertSwipe(ctx context.Context, tx pgx.Tx, rec model.SwipeRecord) (*model.SwipeRecord, error) {
	var stored model.SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (actor_id, target_id, target_kind, direction, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (actor_id, target_id, target_kind) DO NOTHING
RETURNING actor_id, target_id, target_kind, direction, updated_at
`, rec.ActorID, rec.TargetID, string(rec.TargetKind), string(rec.Direction), rec.UpdatedAt.UTC()).Scan(
		&stored.ActorID,
		&stored.TargetID,
		&stored.TargetKind,
		&stored.Direction,
		&stored.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("insert swipe", err)
	}
	return &stored, nil
}

func updateSwipe(ctx context.Context, tx pgx.Tx, rec model.SwipeRecord) (model.SwipeRecord, error) {
	var stored model.SwipeRecord
	err := tx.QueryRow(ctx, `
UPDATE swipes
SET direction = $4, updated_at = $5
WHERE actor_id = $1 AND target_id = $2 AND target_kind = $3
RETURNING actor_id, target_id, target_kind, direction, updated_at
`, rec.ActorID, rec.TargetID, string(rec.TargetKind), string(rec.Direction), rec.UpdatedAt.UTC()).Scan(
		&stored.ActorID,
		&stored.TargetID,
		&stored.TargetKind,
		&stored.Direction,
		&stored.UpdatedAt,
	)
	if err != nil {
		return model.SwipeRecord{}, classify("update swipe", err)
	}
	return stored, nil
}

func (r *SwipeRepo) Get(ctx context.Context, key model.SwipeKey) (model.SwipeRecord, bool, error) {
	var rec model.SwipeRecord
	err := r.pool.QueryRow(ctx, `
SELECT actor_id, target_id, target_kind, direction, updated_at
FROM swipes
WHERE actor_id = $1 AND target_id = $2 AND target_kind = $3
`, key.ActorID, key.TargetID, string(key.TargetKind)).Scan(
		&rec.ActorID,
		&rec.TargetID,
		&rec.TargetKind,
		&rec.Direction,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SwipeRecord{}, false, nil
		}
		return model.SwipeRecord{}, false, classify("get swipe", err)
	}

	return rec, true, nil
}

// ListByActor returns the actor's records of the given kind and direction, newest first.
func (r *SwipeRepo) ListByActor(ctx context.Context, actorID int64, kind enums.TargetKind, direction enums.SwipeDirection) ([]model.SwipeRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT actor_id, target_id, target_kind, direction, updated_at
FROM swipes
WHERE actor_id = $1 AND target_kind = $2 AND direction = $3
ORDER BY updated_at DESC, target_id DESC
`, actorID, string(kind), string(direction))
	if err != nil {
		return nil, classify("list swipes by actor", err)
	}
	return collectSwipes(rows, "list swipes by actor")
}

// ListByTarget returns records other actors hold on the target, newest first.
func (r *SwipeRepo) ListByTarget(ctx context.Context, targetID int64, kind enums.TargetKind, direction enums.SwipeDirection) ([]model.SwipeRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT actor_id, target_id, target_kind, direction, updated_at
FROM swipes
WHERE target_id = $1 AND target_kind = $2 AND direction = $3
ORDER BY updated_at DESC, actor_id DESC
`, targetID, string(kind), string(direction))
	if err != nil {
		return nil, classify("list swipes by target", err)
	}
	return collectSwipes(rows, "list swipes by target")
}

func collectSwipes(rows pgx.Rows, op string) ([]model.SwipeRecord, error) {
	defer rows.Close()

	items := make([]model.SwipeRecord, 0, 16)
	for rows.Next() {
		var rec model.SwipeRecord
		if err := rows.Scan(&rec.ActorID, &rec.TargetID, &rec.TargetKind, &rec.Direction, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	return items, nil
}
