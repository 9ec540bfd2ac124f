package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

const defaultStoreTimeout = 3 * time.Second

// Store persists one record per (actor, target, kind). Upsert must be atomic per key
// and must not block writers on other keys.
type Store interface {
	Upsert(ctx context.Context, rec model.SwipeRecord) (model.UpsertOutcome, error)
	Get(ctx context.Context, key model.SwipeKey) (model.SwipeRecord, bool, error)
	ListByActor(ctx context.Context, actorID int64, kind enums.TargetKind, direction enums.SwipeDirection) ([]model.SwipeRecord, error)
	ListByTarget(ctx context.Context, targetID int64, kind enums.TargetKind, direction enums.SwipeDirection) ([]model.SwipeRecord, error)
}

type Config struct {
	StoreTimeout time.Duration
}

type Service struct {
	store Store
	cfg   Config
	now   func() time.Time
}

type Dependencies struct {
	Store Store
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	return &Service{
		store: deps.Store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// RecordSwipe upserts the decision. Repeating an identical swipe is not an error;
// the outcome tells the caller whether the stored direction actually changed.
func (s *Service) RecordSwipe(ctx context.Context, actorID, targetID int64, kind enums.TargetKind, direction enums.SwipeDirection) (model.UpsertOutcome, error) {
	if actorID <= 0 || targetID <= 0 {
		return model.UpsertOutcome{}, ErrValidation
	}
	if kind != enums.TargetKindUser && kind != enums.TargetKindApplication {
		return model.UpsertOutcome{}, fmt.Errorf("%w: unknown target kind %q", ErrValidation, kind)
	}
	if !direction.Valid() {
		return model.UpsertOutcome{}, fmt.Errorf("%w: unknown direction %q", ErrValidation, direction)
	}
	if s.store == nil {
		return model.UpsertOutcome{}, fmt.Errorf("swipe store is nil")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.Upsert(ctx, model.SwipeRecord{
		ActorID:    actorID,
		TargetID:   targetID,
		TargetKind: kind,
		Direction:  direction,
		UpdatedAt:  s.now().UTC(),
	})
}

func (s *Service) GetDirection(ctx context.Context, actorID, targetID int64, kind enums.TargetKind) (*enums.SwipeDirection, error) {
	if actorID <= 0 || targetID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("swipe store is nil")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rec, ok, err := s.store.Get(ctx, model.SwipeKey{ActorID: actorID, TargetID: targetID, TargetKind: kind})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	direction := rec.Direction
	return &direction, nil
}

func (s *Service) HasDecision(ctx context.Context, actorID, targetID int64, kind enums.TargetKind) (bool, error) {
	direction, err := s.GetDirection(ctx, actorID, targetID, kind)
	if err != nil {
		return false, err
	}
	return direction != nil, nil
}

// LikedTargets lists what the actor RIGHT-swiped of the given kind, newest first.
func (s *Service) LikedTargets(ctx context.Context, actorID int64, kind enums.TargetKind) ([]model.SwipeRecord, error) {
	if actorID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("swipe store is nil")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.ListByActor(ctx, actorID, kind, enums.SwipeDirectionRight)
}

// LikedBy lists who RIGHT-swiped the target under the given kind, newest first.
func (s *Service) LikedBy(ctx context.Context, targetID int64, kind enums.TargetKind) ([]model.SwipeRecord, error) {
	if targetID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("swipe store is nil")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.ListByTarget(ctx, targetID, kind, enums.SwipeDirectionRight)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}
