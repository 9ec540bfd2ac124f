package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("swipe dependencies are not configured")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type Ledger interface {
	RecordSwipe(ctx context.Context, actorID, targetID int64, kind enums.TargetKind, direction enums.SwipeDirection) (model.UpsertOutcome, error)
}

type MatchDetector interface {
	Check(ctx context.Context, userID, applicationID int64) (model.MatchResult, error)
}

type Catalog interface {
	GetApplication(ctx context.Context, applicationID int64) (model.Application, error)
	GetUser(ctx context.Context, userID int64) (model.User, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, actorID int64) (int64, bool, error)
}

// Notifier receives match events. Delivery is best effort.
type Notifier interface {
	Publish(ctx context.Context, event model.MatchEvent) error
}

type SwipeResult struct {
	Direction enums.SwipeDirection
	Matched   bool
	// Changed is false when the swipe repeated the stored direction.
	Changed  bool
	Notified bool
}

type Service struct {
	ledger      Ledger
	detector    MatchDetector
	catalog     Catalog
	rateLimiter RateLimiter
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

type Dependencies struct {
	Ledger      Ledger
	Detector    MatchDetector
	Catalog     Catalog
	RateLimiter RateLimiter
	Notifier    Notifier
	Logger      *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &Service{
		ledger:      deps.Ledger,
		detector:    deps.Detector,
		catalog:     deps.Catalog,
		rateLimiter: deps.RateLimiter,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// SwipeApplication records a user's decision on an application.
func (s *Service) SwipeApplication(ctx context.Context, userID, applicationID int64, direction enums.SwipeDirection) (SwipeResult, error) {
	if userID <= 0 || applicationID <= 0 || !direction.Valid() {
		return SwipeResult{}, ErrValidation
	}
	if s.ledger == nil || s.detector == nil || s.catalog == nil {
		return SwipeResult{}, ErrDependenciesNil
	}

	if _, err := s.catalog.GetUser(ctx, userID); err != nil {
		return SwipeResult{}, err
	}
	app, err := s.catalog.GetApplication(ctx, applicationID)
	if err != nil {
		return SwipeResult{}, err
	}
	if app.OwnerID == userID {
		return SwipeResult{}, fmt.Errorf("%w: cannot swipe own application", ErrValidation)
	}

	if err := s.allow(ctx, userID); err != nil {
		return SwipeResult{}, err
	}

	outcome, err := s.ledger.RecordSwipe(ctx, userID, applicationID, enums.TargetKindApplication, direction)
	if err != nil {
		return SwipeResult{}, err
	}

	return s.afterWrite(ctx, outcome, userID, app)
}

// SwipeUser records the application's decision on a user, made by the application's owner.
func (s *Service) SwipeUser(ctx context.Context, ownerID, applicationID, userID int64, direction enums.SwipeDirection) (SwipeResult, error) {
	if ownerID <= 0 || applicationID <= 0 || userID <= 0 || !direction.Valid() {
		return SwipeResult{}, ErrValidation
	}
	if s.ledger == nil || s.detector == nil || s.catalog == nil {
		return SwipeResult{}, ErrDependenciesNil
	}

	app, err := s.catalog.GetApplication(ctx, applicationID)
	if err != nil {
		return SwipeResult{}, err
	}
	if app.OwnerID != ownerID {
		return SwipeResult{}, apperrors.NewForbiddenError(ownerID, applicationID)
	}
	if userID == ownerID {
		return SwipeResult{}, fmt.Errorf("%w: owner cannot swipe themselves", ErrValidation)
	}
	if _, err := s.catalog.GetUser(ctx, userID); err != nil {
		return SwipeResult{}, err
	}

	if err := s.allow(ctx, ownerID); err != nil {
		return SwipeResult{}, err
	}

	outcome, err := s.ledger.RecordSwipe(ctx, applicationID, userID, enums.TargetKindUser, direction)
	if err != nil {
		return SwipeResult{}, err
	}

	return s.afterWrite(ctx, outcome, userID, app)
}

// afterWrite checks for a match after every RIGHT write and notifies only when the
// write changed the stored direction, so repeated identical swipes stay silent.
func (s *Service) afterWrite(ctx context.Context, outcome model.UpsertOutcome, userID int64, app model.Application) (SwipeResult, error) {
	res := SwipeResult{
		Direction: outcome.Record.Direction,
		Changed:   outcome.Changed(),
	}
	if outcome.Record.Direction != enums.SwipeDirectionRight {
		return res, nil
	}

	match, err := s.detector.Check(ctx, userID, app.ID)
	if err != nil {
		return SwipeResult{}, fmt.Errorf("check match: %w", err)
	}
	res.Matched = match.Matched
	if !res.Matched || !res.Changed {
		return res, nil
	}

	event := model.MatchEvent{
		ID:            s.newID(),
		UserID:        userID,
		ApplicationID: app.ID,
		OwnerID:       app.OwnerID,
		CompanyID:     app.CompanyID,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Error("match notification failed",
			zap.String("event_id", event.ID),
			zap.Int64("user_id", event.UserID),
			zap.Int64("application_id", event.ApplicationID),
			zap.Error(err),
		)
		return res, nil
	}
	res.Notified = true
	return res, nil
}

func (s *Service) allow(ctx context.Context, actorID int64) error {
	if s.rateLimiter == nil {
		return nil
	}

	retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, actorID)
	if err != nil {
		return apperrors.NewStoreUnavailableError("apply swipe rate limiter", err)
	}
	if !allowed {
		return TooFastError{RetryAfterSec: retryAfter}
	}
	return nil
}
