package apiapp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/config"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/repo/memory"
	pgrepo "github.com/TLN1/linkr-back/backend/internal/repo/postgres"
	redrepo "github.com/TLN1/linkr-back/backend/internal/repo/redis"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
	candidatesvc "github.com/TLN1/linkr-back/backend/internal/services/candidates"
	feedsvc "github.com/TLN1/linkr-back/backend/internal/services/feed"
	ledgersvc "github.com/TLN1/linkr-back/backend/internal/services/ledger"
	matchessvc "github.com/TLN1/linkr-back/backend/internal/services/matches"
	ratesvc "github.com/TLN1/linkr-back/backend/internal/services/rate"
	recommendersvc "github.com/TLN1/linkr-back/backend/internal/services/recommender"
	swipesvc "github.com/TLN1/linkr-back/backend/internal/services/swipes"
)

// Catalog is the projection store both storage drivers provide.
type Catalog interface {
	GetApplication(ctx context.Context, applicationID int64) (model.Application, error)
	ListApplications(ctx context.Context, ids []int64) ([]model.Application, error)
	GetUser(ctx context.Context, userID int64) (model.User, error)
	ListUsers(ctx context.Context, ids []int64) ([]model.User, error)
	AccountExists(ctx context.Context, userID int64) (bool, error)
	GetPreference(ctx context.Context, userID int64) (model.PreferenceFilter, error)
	IncrementViews(ctx context.Context, applicationID int64) (int64, error)
	ListPool(ctx context.Context, q model.PoolQuery) ([]model.Candidate, error)
}

// Engine is the assembled swipe and match engine, shared by the API and the CLI.
type Engine struct {
	Ledger      *ledgersvc.Service
	Candidates  *candidatesvc.Service
	Matches     *matchessvc.Service
	Recommender *recommendersvc.Service
	Swipes      *swipesvc.Service
	Feed        *feedsvc.Service
	Auth        *authsvc.Service
	// MatchEvents is nil when redis is disabled.
	MatchEvents *redrepo.MatchEventRepo

	Postgres *pgxpool.Pool
	Redis    *goredis.Client
}

func NewEngine(ctx context.Context, cfg config.Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	e := &Engine{}

	var (
		store   ledgersvc.Store
		catalog Catalog
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		e.Postgres = pool
		store = pgrepo.NewSwipeRepo(pool)
		catalog = pgrepo.NewCatalogRepo(pool)
	default:
		ledger := memory.NewLedger()
		memCatalog := memory.NewCatalog(ledger)
		if cfg.Storage.Fixtures != "" {
			if err := memory.LoadFixtures(cfg.Storage.Fixtures, memCatalog); err != nil {
				return nil, fmt.Errorf("load fixtures: %w", err)
			}
		}
		store = ledger
		catalog = memCatalog
	}

	if cfg.Redis.Addr != "" {
		client := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redrepo.Ping(ctx, client); err != nil {
			log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
			_ = client.Close()
		} else {
			e.Redis = client
		}
	}

	e.Ledger = ledgersvc.NewService(ledgersvc.Dependencies{Store: store}, ledgersvc.Config{
		StoreTimeout: cfg.Engine.StoreTimeout,
	})
	e.Candidates = candidatesvc.NewService(candidatesvc.Dependencies{
		Pool:         catalog,
		Liked:        e.Ledger,
		Applications: catalog,
	}, candidatesvc.Config{
		PoolCap:      cfg.Engine.PoolCap,
		StoreTimeout: cfg.Engine.StoreTimeout,
	})
	e.Matches = matchessvc.NewService(matchessvc.Dependencies{
		Ledger:       e.Ledger,
		Applications: catalog,
	})
	e.Recommender = recommendersvc.NewService(recommendersvc.Config{
		IncludeIndustry: cfg.Engine.IncludeIndustry,
	}, log)

	jwtManager := authsvc.NewJWTManager(authsvc.TokenConfig{
		Secret:    cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.Issuer,
		AccessTTL: cfg.Auth.JWTAccessTTL,
		Leeway:    cfg.Auth.Leeway,
	})
	swipeDeps := swipesvc.Dependencies{
		Ledger:   e.Ledger,
		Detector: e.Matches,
		Catalog:  catalog,
		Logger:   log,
	}
	feedDeps := feedsvc.Dependencies{
		Catalog:  catalog,
		Selector: e.Candidates,
		Liked:    e.Ledger,
		Ranker:   e.Recommender,
		Logger:   log,
	}

	if e.Redis != nil {
		e.MatchEvents = redrepo.NewMatchEventRepo(e.Redis, cfg.Engine.MatchChannel)
		swipeDeps.Notifier = e.MatchEvents
		swipeDeps.RateLimiter = ratesvc.NewLimiter(
			redrepo.NewRateRepo(e.Redis),
			cfg.Engine.SwipeRate.PerMinute,
			cfg.Engine.SwipeRate.Per10Sec,
		)
		feedDeps.Cache = redrepo.NewPreferenceCacheRepo(e.Redis, cfg.Engine.PreferenceCacheTTL)
		e.Auth = authsvc.NewService(jwtManager, redrepo.NewSessionRepo(e.Redis), catalog, cfg.Auth.RefreshTTL)
	} else {
		log.Info("redis disabled: stateless tokens, no rate limiting, match events logged only")
		e.Auth = authsvc.NewService(jwtManager, nil, catalog, cfg.Auth.RefreshTTL)
	}

	e.Swipes = swipesvc.NewService(swipeDeps)
	e.Feed = feedsvc.NewService(feedDeps, feedsvc.Config{
		DefaultLimit: cfg.Engine.DefaultLimit,
		MaxLimit:     cfg.Engine.MaxLimit,
		Rerank:       cfg.Engine.Rerank,
	})

	return e, nil
}

func (e *Engine) Close() error {
	if e.Postgres != nil {
		e.Postgres.Close()
	}
	if e.Redis != nil {
		return e.Redis.Close()
	}
	return nil
}
