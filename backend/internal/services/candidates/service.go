package candidates

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

const (
	defaultPoolCap      = 500
	defaultStoreTimeout = 3 * time.Second
)

// PoolSource enumerates candidates of a kind. Implementations may push the query
// down; results are filtered again here.
type PoolSource interface {
	ListPool(ctx context.Context, q model.PoolQuery) ([]model.Candidate, error)
}

type LikedSource interface {
	LikedTargets(ctx context.Context, actorID int64, kind enums.TargetKind) ([]model.SwipeRecord, error)
}

// Applications resolves the owner of an acting application.
type Applications interface {
	GetApplication(ctx context.Context, applicationID int64) (model.Application, error)
}

type Config struct {
	PoolCap      int
	StoreTimeout time.Duration
}

type Request struct {
	ActorID    int64
	TargetKind enums.TargetKind
	// OwnerID is excluded from the results as a candidate owner; zero disables it.
	OwnerID    int64
	Preference model.PreferenceFilter
	Limit      int
}

type Service struct {
	pool    PoolSource
	liked   LikedSource
	apps    Applications
	cfg     Config
	shuffle func(n int, swap func(i, j int))
}

type Dependencies struct {
	Pool  PoolSource
	Liked LikedSource

	// Applications is optional. Without it user selections for an application do
	// not exclude the application's owner.
	Applications Applications
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.PoolCap <= 0 {
		cfg.PoolCap = defaultPoolCap
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	return &Service{
		pool:    deps.Pool,
		liked:   deps.Liked,
		apps:    deps.Applications,
		cfg:     cfg,
		shuffle: rand.Shuffle,
	}
}

// SelectCandidates returns at most limit target ids of the given kind in random order.
// A user actor never sees applications they own. An application actor never sees
// its owner when an Applications lookup is configured.
func (s *Service) SelectCandidates(ctx context.Context, actorID int64, kind enums.TargetKind, pref model.PreferenceFilter, limit int) ([]int64, error) {
	req := Request{ActorID: actorID, TargetKind: kind, Preference: pref, Limit: limit}
	switch {
	case kind == enums.TargetKindApplication:
		req.OwnerID = actorID
	case kind == enums.TargetKindUser && s.apps != nil && actorID > 0:
		app, err := s.apps.GetApplication(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("resolve application owner: %w", err)
		}
		req.OwnerID = app.OwnerID
	}

	items, err := s.Select(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

// Select draws a uniform random sample without replacement from the eligible pool:
// not owned by OwnerID, not RIGHT-swiped by the actor, and passing the preference.
// LEFT-swiped targets stay eligible.
func (s *Service) Select(ctx context.Context, req Request) ([]model.Candidate, error) {
	if req.ActorID <= 0 {
		return nil, ErrValidation
	}
	if req.TargetKind != enums.TargetKindUser && req.TargetKind != enums.TargetKindApplication {
		return nil, fmt.Errorf("%w: unknown target kind %q", ErrValidation, req.TargetKind)
	}
	pref, err := rules.NormalizePreference(req.Preference)
	if err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		return []model.Candidate{}, nil
	}
	if s.pool == nil || s.liked == nil {
		return nil, fmt.Errorf("candidate selector dependencies are not configured")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.StoreTimeout)
		defer cancel()
	}

	liked, err := s.liked.LikedTargets(ctx, req.ActorID, req.TargetKind)
	if err != nil {
		return nil, fmt.Errorf("load liked targets: %w", err)
	}
	excluded := make(map[int64]struct{}, len(liked))
	excludeIDs := make([]int64, 0, len(liked))
	for _, rec := range liked {
		if _, dup := excluded[rec.TargetID]; dup {
			continue
		}
		excluded[rec.TargetID] = struct{}{}
		excludeIDs = append(excludeIDs, rec.TargetID)
	}

	pool, err := s.pool.ListPool(ctx, model.PoolQuery{
		ActorID:    req.ActorID,
		TargetKind: req.TargetKind,
		ExcludeIDs: excludeIDs,
		OwnerID:    req.OwnerID,
		Preference: pref,
		Cap:        s.cfg.PoolCap,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidate pool: %w", err)
	}

	eligible := make([]model.Candidate, 0, len(pool))
	seen := make(map[int64]struct{}, len(pool))
	for _, c := range pool {
		if c.Kind != "" && c.Kind != req.TargetKind {
			continue
		}
		if req.OwnerID > 0 && c.OwnerID == req.OwnerID {
			continue
		}
		if _, skip := excluded[c.ID]; skip {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if !rules.MatchesPreference(c, pref) {
			continue
		}
		seen[c.ID] = struct{}{}
		eligible = append(eligible, c)
	}

	s.shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if len(eligible) > req.Limit {
		eligible = eligible[:req.Limit]
	}

	return eligible, nil
}
