package feed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
	candidatesvc "github.com/TLN1/linkr-back/backend/internal/services/candidates"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 50
	defaultLikedHistory = 50
)

var ErrValidation = errors.New("validation error")

type Catalog interface {
	GetApplication(ctx context.Context, applicationID int64) (model.Application, error)
	ListApplications(ctx context.Context, ids []int64) ([]model.Application, error)
	GetUser(ctx context.Context, userID int64) (model.User, error)
	ListUsers(ctx context.Context, ids []int64) ([]model.User, error)
	GetPreference(ctx context.Context, userID int64) (model.PreferenceFilter, error)
	IncrementViews(ctx context.Context, applicationID int64) (int64, error)
}

type PreferenceCache interface {
	Get(ctx context.Context, userID int64) (model.PreferenceFilter, bool, error)
	Set(ctx context.Context, userID int64, pref model.PreferenceFilter) error
}

type Selector interface {
	Select(ctx context.Context, req candidatesvc.Request) ([]model.Candidate, error)
}

type LikedSource interface {
	LikedTargets(ctx context.Context, actorID int64, kind enums.TargetKind) ([]model.SwipeRecord, error)
}

type Ranker interface {
	RerankCandidates(liked, candidates []model.Candidate) []model.Candidate
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
	Rerank       bool
	LikedHistory int
}

type Dependencies struct {
	Catalog  Catalog
	Cache    PreferenceCache
	Selector Selector
	Liked    LikedSource
	Ranker   Ranker
	Logger   *zap.Logger
}

// Service builds candidate lists for both sides of the marketplace.
type Service struct {
	catalog  Catalog
	cache    PreferenceCache
	selector Selector
	liked    LikedSource
	ranker   Ranker
	logger   *zap.Logger
	cfg      Config
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultPageSize
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = maxPageSize
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	if cfg.LikedHistory <= 0 {
		cfg.LikedHistory = defaultLikedHistory
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		catalog:  deps.Catalog,
		cache:    deps.Cache,
		selector: deps.Selector,
		liked:    deps.Liked,
		ranker:   deps.Ranker,
		logger:   logger,
		cfg:      cfg,
	}
}

func (s *Service) DefaultLimit() int {
	return s.cfg.DefaultLimit
}

// Applications selects applications for the user. A non-nil override replaces the
// saved preference for this call only.
func (s *Service) Applications(ctx context.Context, userID int64, override *model.PreferenceFilter, limit int) ([]model.Application, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	var pref model.PreferenceFilter
	if override != nil {
		pref = *override
	} else {
		saved, err := s.Preference(ctx, userID)
		if err != nil {
			return nil, err
		}
		pref = saved
	}

	picked, err := s.selector.Select(ctx, candidatesvc.Request{
		ActorID:    userID,
		TargetKind: enums.TargetKindApplication,
		OwnerID:    userID,
		Preference: pref,
		Limit:      s.clamp(limit),
	})
	if err != nil {
		return nil, err
	}

	if s.cfg.Rerank && s.ranker != nil && len(picked) > 1 {
		liked, err := s.likedApplications(ctx, userID)
		if err != nil {
			return nil, err
		}
		picked = s.ranker.RerankCandidates(liked, picked)
	}

	return s.catalog.ListApplications(ctx, candidateIDs(picked))
}

// Users selects users for an application. Only the application's owner may ask.
func (s *Service) Users(ctx context.Context, ownerID, applicationID int64, limit int) ([]model.User, error) {
	if ownerID <= 0 || applicationID <= 0 {
		return nil, ErrValidation
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	app, err := s.catalog.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError(ownerID, applicationID)
	}

	picked, err := s.selector.Select(ctx, candidatesvc.Request{
		ActorID:    applicationID,
		TargetKind: enums.TargetKindUser,
		OwnerID:    ownerID,
		Limit:      s.clamp(limit),
	})
	if err != nil {
		return nil, err
	}

	if s.cfg.Rerank && s.ranker != nil && len(picked) > 1 {
		liked, err := s.likedUsers(ctx, applicationID)
		if err != nil {
			return nil, err
		}
		picked = s.ranker.RerankCandidates(liked, picked)
	}

	return s.catalog.ListUsers(ctx, candidateIDs(picked))
}

// Application returns the projection and counts a view unless the owner is looking.
func (s *Service) Application(ctx context.Context, viewerID, applicationID int64) (model.Application, error) {
	if viewerID <= 0 || applicationID <= 0 {
		return model.Application{}, ErrValidation
	}
	if s.catalog == nil {
		return model.Application{}, fmt.Errorf("catalog is nil")
	}

	app, err := s.catalog.GetApplication(ctx, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	if app.OwnerID == viewerID {
		return app, nil
	}

	views, err := s.catalog.IncrementViews(ctx, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	app.Views = views
	return app, nil
}

// Preference loads the saved filter, going through the cache when one is configured.
// Cache failures degrade to a store read.
func (s *Service) Preference(ctx context.Context, userID int64) (model.PreferenceFilter, error) {
	if s.cache != nil {
		pref, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("preference cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		} else if ok {
			return pref, nil
		}
	}

	pref, err := s.catalog.GetPreference(ctx, userID)
	if err != nil {
		return model.PreferenceFilter{}, err
	}
	pref, err = rules.NormalizePreference(pref)
	if err != nil {
		return model.PreferenceFilter{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, pref); err != nil {
			s.logger.Warn("preference cache write failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return pref, nil
}

func (s *Service) likedApplications(ctx context.Context, userID int64) ([]model.Candidate, error) {
	records, err := s.liked.LikedTargets(ctx, userID, enums.TargetKindApplication)
	if err != nil {
		return nil, fmt.Errorf("load liked applications: %w", err)
	}
	apps, err := s.catalog.ListApplications(ctx, s.historyIDs(records))
	if err != nil {
		return nil, err
	}

	out := make([]model.Candidate, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.Candidate())
	}
	return out, nil
}

func (s *Service) likedUsers(ctx context.Context, applicationID int64) ([]model.Candidate, error) {
	records, err := s.liked.LikedTargets(ctx, applicationID, enums.TargetKindUser)
	if err != nil {
		return nil, fmt.Errorf("load liked users: %w", err)
	}
	users, err := s.catalog.ListUsers(ctx, s.historyIDs(records))
	if err != nil {
		return nil, err
	}

	out := make([]model.Candidate, 0, len(users))
	for _, user := range users {
		out = append(out, user.Candidate())
	}
	return out, nil
}

func (s *Service) historyIDs(records []model.SwipeRecord) []int64 {
	if len(records) > s.cfg.LikedHistory {
		records = records[:s.cfg.LikedHistory]
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.TargetID)
	}
	return ids
}

func (s *Service) clamp(limit int) int {
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func (s *Service) ready() error {
	if s.catalog == nil || s.selector == nil || s.liked == nil {
		return fmt.Errorf("feed dependencies are not configured")
	}
	return nil
}

func candidateIDs(items []model.Candidate) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
