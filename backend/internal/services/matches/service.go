package matches

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Ledger interface {
	GetDirection(ctx context.Context, actorID, targetID int64, kind enums.TargetKind) (*enums.SwipeDirection, error)
	LikedTargets(ctx context.Context, actorID int64, kind enums.TargetKind) ([]model.SwipeRecord, error)
	LikedBy(ctx context.Context, targetID int64, kind enums.TargetKind) ([]model.SwipeRecord, error)
}

type ApplicationReader interface {
	GetApplication(ctx context.Context, applicationID int64) (model.Application, error)
}

// Service derives matches from the ledger. Nothing is stored: a match is two
// complementary RIGHT records and disappears as soon as either side revises.
type Service struct {
	ledger       Ledger
	applications ApplicationReader
}

type Dependencies struct {
	Ledger       Ledger
	Applications ApplicationReader
}

func NewService(deps Dependencies) *Service {
	return &Service{
		ledger:       deps.Ledger,
		applications: deps.Applications,
	}
}

// CheckMatch reports whether the user RIGHT-swiped the application and the
// application RIGHT-swiped the user. It never writes.
func (s *Service) CheckMatch(ctx context.Context, userID, applicationID int64) (bool, error) {
	res, err := s.Check(ctx, userID, applicationID)
	if err != nil {
		return false, err
	}
	return res.Matched, nil
}

func (s *Service) Check(ctx context.Context, userID, applicationID int64) (model.MatchResult, error) {
	if userID <= 0 || applicationID <= 0 {
		return model.MatchResult{}, ErrValidation
	}
	if s.ledger == nil {
		return model.MatchResult{}, fmt.Errorf("ledger is nil")
	}

	res := model.MatchResult{UserID: userID, ApplicationID: applicationID}

	userKey := model.SwipeKey{ActorID: userID, TargetID: applicationID, TargetKind: enums.TargetKindApplication}
	userSide, err := s.ledger.GetDirection(ctx, userKey.ActorID, userKey.TargetID, userKey.TargetKind)
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("read user swipe: %w", err)
	}
	if userSide == nil || *userSide != enums.SwipeDirectionRight {
		return res, nil
	}

	appKey := userKey.Reciprocal()
	applicationSide, err := s.ledger.GetDirection(ctx, appKey.ActorID, appKey.TargetID, appKey.TargetKind)
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("read application swipe: %w", err)
	}
	res.Matched = applicationSide != nil && *applicationSide == enums.SwipeDirectionRight
	return res, nil
}

// ListForUser returns the applications currently matched with the user, latest first.
func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]model.MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("ledger is nil")
	}

	liked, err := s.ledger.LikedTargets(ctx, userID, enums.TargetKindApplication)
	if err != nil {
		return nil, fmt.Errorf("list liked applications: %w", err)
	}
	likedBack, err := s.ledger.LikedBy(ctx, userID, enums.TargetKindUser)
	if err != nil {
		return nil, fmt.Errorf("list applications liking user: %w", err)
	}

	back := make(map[int64]model.SwipeRecord, len(likedBack))
	for _, rec := range likedBack {
		back[rec.ActorID] = rec
	}

	items := make([]model.MatchItem, 0, len(liked))
	for _, rec := range liked {
		other, ok := back[rec.TargetID]
		if !ok {
			continue
		}
		item := model.MatchItem{UserID: userID, ApplicationID: rec.TargetID, MatchedAt: rec.UpdatedAt}
		if other.UpdatedAt.After(item.MatchedAt) {
			item.MatchedAt = other.UpdatedAt
		}
		items = append(items, item)
	}

	return truncate(sortMatches(items), limit), nil
}

// ListForApplication returns the users currently matched with the application, latest first.
func (s *Service) ListForApplication(ctx context.Context, applicationID int64, limit int) ([]model.MatchItem, error) {
	if applicationID <= 0 {
		return nil, ErrValidation
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("ledger is nil")
	}

	liked, err := s.ledger.LikedTargets(ctx, applicationID, enums.TargetKindUser)
	if err != nil {
		return nil, fmt.Errorf("list liked users: %w", err)
	}
	likedBack, err := s.ledger.LikedBy(ctx, applicationID, enums.TargetKindApplication)
	if err != nil {
		return nil, fmt.Errorf("list users liking application: %w", err)
	}

	back := make(map[int64]model.SwipeRecord, len(likedBack))
	for _, rec := range likedBack {
		back[rec.ActorID] = rec
	}

	items := make([]model.MatchItem, 0, len(liked))
	for _, rec := range liked {
		other, ok := back[rec.TargetID]
		if !ok {
			continue
		}
		item := model.MatchItem{UserID: rec.TargetID, ApplicationID: applicationID, MatchedAt: rec.UpdatedAt}
		if other.UpdatedAt.After(item.MatchedAt) {
			item.MatchedAt = other.UpdatedAt
		}
		items = append(items, item)
	}

	return truncate(sortMatches(items), limit), nil
}

// ListForOwnedApplication is ListForApplication restricted to the application's owner.
func (s *Service) ListForOwnedApplication(ctx context.Context, ownerID, applicationID int64, limit int) ([]model.MatchItem, error) {
	if ownerID <= 0 || applicationID <= 0 {
		return nil, ErrValidation
	}
	if s.applications == nil {
		return nil, fmt.Errorf("application reader is nil")
	}

	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError(ownerID, applicationID)
	}

	return s.ListForApplication(ctx, applicationID, limit)
}

func sortMatches(items []model.MatchItem) []model.MatchItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MatchedAt.After(items[j].MatchedAt)
	})
	return items
}

func truncate(items []model.MatchItem, limit int) []model.MatchItem {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
