package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
)

// Catalog holds application, company and user projections plus saved preferences.
type Catalog struct {
	mu           sync.RWMutex
	companies    map[int64]model.Company
	applications map[int64]model.Application
	users        map[int64]model.User
	preferences  map[int64]model.PreferenceFilter
	swipes       *Ledger
}

// NewCatalog builds an empty catalog. When swipes is set, candidate pools also skip
// targets the actor already RIGHT-swiped.
func NewCatalog(swipes *Ledger) *Catalog {
	return &Catalog{
		companies:    make(map[int64]model.Company),
		applications: make(map[int64]model.Application),
		users:        make(map[int64]model.User),
		preferences:  make(map[int64]model.PreferenceFilter),
		swipes:       swipes,
	}
}

func (c *Catalog) PutCompany(company model.Company) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.companies[company.ID] = company
}

// PutApplication stores the application; owner and industry come from its company.
func (c *Catalog) PutApplication(app model.Application) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	company, ok := c.companies[app.CompanyID]
	if !ok {
		return apperrors.NewNotFoundError("company", app.CompanyID)
	}
	app.OwnerID = company.OwnerID
	app.Industry = company.Industry
	c.applications[app.ID] = app
	return nil
}

func (c *Catalog) PutUser(user model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = user
}

func (c *Catalog) PutPreference(userID int64, pref model.PreferenceFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferences[userID] = pref
}

func (c *Catalog) GetApplication(ctx context.Context, applicationID int64) (model.Application, error) {
	if err := ctx.Err(); err != nil {
		return model.Application{}, apperrors.NewStoreUnavailableError("get application", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	app, ok := c.applications[applicationID]
	if !ok {
		return model.Application{}, apperrors.NewNotFoundError("application", applicationID)
	}
	return app, nil
}

func (c *Catalog) ListApplications(ctx context.Context, ids []int64) ([]model.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailableError("list applications", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]model.Application, 0, len(ids))
	for _, id := range ids {
		if app, ok := c.applications[id]; ok {
			items = append(items, app)
		}
	}
	return items, nil
}

func (c *Catalog) GetUser(ctx context.Context, userID int64) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, apperrors.NewStoreUnavailableError("get user", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	user, ok := c.users[userID]
	if !ok {
		return model.User{}, apperrors.NewNotFoundError("user", userID)
	}
	return user, nil
}

func (c *Catalog) ListUsers(ctx context.Context, ids []int64) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailableError("list users", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := c.users[id]; ok {
			items = append(items, user)
		}
	}
	return items, nil
}

func (c *Catalog) AccountExists(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.NewStoreUnavailableError("check account exists", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.users[userID]
	return ok, nil
}

func (c *Catalog) GetPreference(ctx context.Context, userID int64) (model.PreferenceFilter, error) {
	if err := ctx.Err(); err != nil {
		return model.PreferenceFilter{}, apperrors.NewStoreUnavailableError("get preference", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preferences[userID], nil
}

func (c *Catalog) IncrementViews(ctx context.Context, applicationID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.NewStoreUnavailableError("increment application views", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	app, ok := c.applications[applicationID]
	if !ok {
		return 0, apperrors.NewNotFoundError("application", applicationID)
	}
	app.Views++
	c.applications[applicationID] = app
	return app.Views, nil
}

func (c *Catalog) ListPool(ctx context.Context, q model.PoolQuery) ([]model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailableError("list candidate pool", err)
	}

	var liked []model.SwipeRecord
	if c.swipes != nil && q.ActorID > 0 {
		var err error
		liked, err = c.swipes.ListByActor(ctx, q.ActorID, q.TargetKind, enums.SwipeDirectionRight)
		if err != nil {
			return nil, err
		}
	}
	excluded := make(map[int64]struct{}, len(q.ExcludeIDs)+len(liked))
	for _, id := range q.ExcludeIDs {
		excluded[id] = struct{}{}
	}
	for _, rec := range liked {
		excluded[rec.TargetID] = struct{}{}
	}

	var universe []model.Candidate
	c.mu.RLock()
	switch q.TargetKind {
	case enums.TargetKindApplication:
		universe = make([]model.Candidate, 0, len(c.applications))
		for _, app := range c.applications {
			universe = append(universe, app.Candidate())
		}
	case enums.TargetKindUser:
		universe = make([]model.Candidate, 0, len(c.users))
		for _, user := range c.users {
			universe = append(universe, user.Candidate())
		}
	default:
		c.mu.RUnlock()
		return nil, fmt.Errorf("unsupported target kind %q", q.TargetKind)
	}
	c.mu.RUnlock()

	items := make([]model.Candidate, 0, len(universe))
	for _, candidate := range universe {
		if candidate.OwnerID == q.OwnerID {
			continue
		}
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}
		if !rules.MatchesPreference(candidate, q.Preference) {
			continue
		}
		items = append(items, candidate)
	}

	// Map iteration order is not uniform; sort before sampling.
	slices.SortFunc(items, func(a, b model.Candidate) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	if q.Cap > 0 && len(items) > q.Cap {
		items = items[:q.Cap]
	}

	return items, nil
}
