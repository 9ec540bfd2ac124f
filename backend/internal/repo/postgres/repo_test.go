package postgres

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

// newTestPool connects to POSTGRES_TEST_DSN, applies migrations and empties the
// engine tables. Tests are skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE swipes, user_preferences, applications, companies, users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func mustExec(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), sql, args...); err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
}

func candidateIDs(items []model.Candidate) []int64 {
	ids := make([]int64, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSwipeRepoUpsertReportsPreviousDirection(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSwipeRepo(pool)
	ctx := context.Background()

	rec := model.SwipeRecord{ActorID: 1, TargetID: 11, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionRight}

	first, err := repo.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Previous != nil || !first.Changed() {
		t.Fatalf("unexpected first outcome: previous %v changed %v", first.Previous, first.Changed())
	}

	repeat, err := repo.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("repeat upsert: %v", err)
	}
	if repeat.Previous == nil || *repeat.Previous != enums.SwipeDirectionRight {
		t.Fatalf("unexpected repeat previous: got %v want RIGHT", repeat.Previous)
	}
	if repeat.Changed() {
		t.Fatalf("repeat swipe must not report a change")
	}

	rec.Direction = enums.SwipeDirectionLeft
	revised, err := repo.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("revise upsert: %v", err)
	}
	if revised.Previous == nil || *revised.Previous != enums.SwipeDirectionRight || !revised.Changed() {
		t.Fatalf("unexpected revise outcome: previous %v changed %v", revised.Previous, revised.Changed())
	}
	if revised.Record.Direction != enums.SwipeDirectionLeft {
		t.Fatalf("unexpected stored direction: got %s want LEFT", revised.Record.Direction)
	}

	got, found, err := repo.Get(ctx, rec.Key())
	if err != nil || !found {
		t.Fatalf("get swipe: found %v err %v", found, err)
	}
	if got.Direction != enums.SwipeDirectionLeft {
		t.Fatalf("unexpected direction after revise: got %s want LEFT", got.Direction)
	}

	var rows int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM swipes`).Scan(&rows); err != nil {
		t.Fatalf("count swipes: %v", err)
	}
	if rows != 1 {
		t.Fatalf("unexpected row count: got %d want 1", rows)
	}
}

func TestSwipeRepoConcurrentFirstSwipesReportOneInsert(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSwipeRepo(pool)
	ctx := context.Background()

	const writers = 8
	rec := model.SwipeRecord{ActorID: 2, TargetID: 12, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionRight}

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		mu    sync.Mutex
		fresh int
		errs  []error
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			out, err := repo.Upsert(ctx, rec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if out.Previous == nil {
				fresh++
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("unexpected upsert errors: %v", errs)
	}
	if fresh != 1 {
		t.Fatalf("unexpected first-swipe outcomes: got %d want 1", fresh)
	}
}

func TestSwipeRepoListByActorAndTarget(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSwipeRepo(pool)
	ctx := context.Background()

	swipes := []model.SwipeRecord{
		{ActorID: 1, TargetID: 11, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionRight},
		{ActorID: 1, TargetID: 12, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionLeft},
		{ActorID: 3, TargetID: 11, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionRight},
		{ActorID: 11, TargetID: 1, TargetKind: enums.TargetKindUser, Direction: enums.SwipeDirectionRight},
	}
	for _, rec := range swipes {
		if _, err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert %+v: %v", rec.Key(), err)
		}
	}

	liked, err := repo.ListByActor(ctx, 1, enums.TargetKindApplication, enums.SwipeDirectionRight)
	if err != nil {
		t.Fatalf("list by actor: %v", err)
	}
	if len(liked) != 1 || liked[0].TargetID != 11 {
		t.Fatalf("unexpected liked targets: %+v", liked)
	}

	likers, err := repo.ListByTarget(ctx, 11, enums.TargetKindApplication, enums.SwipeDirectionRight)
	if err != nil {
		t.Fatalf("list by target: %v", err)
	}
	if len(likers) != 2 {
		t.Fatalf("unexpected likers: got %d want 2", len(likers))
	}
}

// seedCatalog stores users 1..4 and applications 11..14. User 1 owns company 100
// and with it application 14.
func seedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	users := []struct {
		id       int64
		location enums.JobLocation
	}{
		{1, enums.JobLocationRemote},
		{2, enums.JobLocationRemote},
		{3, enums.JobLocationOnSite},
		{4, enums.JobLocationRemote},
	}
	for _, u := range users {
		mustExec(t, pool, `
INSERT INTO users (id, username, location, job_type, experience_level, industry)
VALUES ($1, $2, $3, $4, $5, $6)
`, u.id, "user-"+string(rune('a'+u.id)), string(u.location), string(enums.JobTypeFullTime), string(enums.ExperienceLevelJunior), string(enums.IndustryFinance))
	}

	mustExec(t, pool, `INSERT INTO companies (id, name, industry, owner_id) VALUES (100, 'Own', $1, 1)`, string(enums.IndustryFinance))
	mustExec(t, pool, `INSERT INTO companies (id, name, industry, owner_id) VALUES (200, 'Acme', $1, 4)`, string(enums.IndustryRetail))

	apps := []struct {
		id        int64
		companyID int64
		location  enums.JobLocation
	}{
		{11, 200, enums.JobLocationRemote},
		{12, 200, enums.JobLocationRemote},
		{13, 200, enums.JobLocationOnSite},
		{14, 100, enums.JobLocationRemote},
	}
	for _, a := range apps {
		mustExec(t, pool, `
INSERT INTO applications (id, company_id, location, job_type, experience_level)
VALUES ($1, $2, $3, $4, $5)
`, a.id, a.companyID, string(a.location), string(enums.JobTypeFullTime), string(enums.ExperienceLevelJunior))
	}
}

func TestCatalogRepoListPoolApplications(t *testing.T) {
	pool := newTestPool(t)
	seedCatalog(t, pool)
	swipes := NewSwipeRepo(pool)
	catalog := NewCatalogRepo(pool)
	ctx := context.Background()

	for _, rec := range []model.SwipeRecord{
		{ActorID: 1, TargetID: 11, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionRight},
		{ActorID: 1, TargetID: 12, TargetKind: enums.TargetKindApplication, Direction: enums.SwipeDirectionLeft},
	} {
		if _, err := swipes.Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	items, err := catalog.ListPool(ctx, model.PoolQuery{
		ActorID:    1,
		TargetKind: enums.TargetKindApplication,
		OwnerID:    1,
	})
	if err != nil {
		t.Fatalf("list pool: %v", err)
	}
	// 11 was liked, 14 is owned by the actor, 12 was only passed on.
	if got, want := candidateIDs(items), []int64{12, 13}; !equalIDs(got, want) {
		t.Fatalf("unexpected pool: got %v want %v", got, want)
	}

	items, err = catalog.ListPool(ctx, model.PoolQuery{
		ActorID:    1,
		TargetKind: enums.TargetKindApplication,
		OwnerID:    1,
		Preference: model.PreferenceFilter{Locations: []enums.JobLocation{enums.JobLocationRemote}},
	})
	if err != nil {
		t.Fatalf("list filtered pool: %v", err)
	}
	if got, want := candidateIDs(items), []int64{12}; !equalIDs(got, want) {
		t.Fatalf("unexpected filtered pool: got %v want %v", got, want)
	}

	items, err = catalog.ListPool(ctx, model.PoolQuery{
		ActorID:    1,
		TargetKind: enums.TargetKindApplication,
		OwnerID:    1,
		ExcludeIDs: []int64{13},
		Preference: model.PreferenceFilter{Industries: []enums.Industry{enums.IndustryRetail}},
	})
	if err != nil {
		t.Fatalf("list pool with exclusions: %v", err)
	}
	if got, want := candidateIDs(items), []int64{12}; !equalIDs(got, want) {
		t.Fatalf("unexpected pool with exclusions: got %v want %v", got, want)
	}
}

func TestCatalogRepoListPoolUsers(t *testing.T) {
	pool := newTestPool(t)
	seedCatalog(t, pool)
	swipes := NewSwipeRepo(pool)
	catalog := NewCatalogRepo(pool)
	ctx := context.Background()

	if _, err := swipes.Upsert(ctx, model.SwipeRecord{ActorID: 11, TargetID: 2, TargetKind: enums.TargetKindUser, Direction: enums.SwipeDirectionRight}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	items, err := catalog.ListPool(ctx, model.PoolQuery{
		ActorID:    11,
		TargetKind: enums.TargetKindUser,
		OwnerID:    4,
		Preference: model.PreferenceFilter{Locations: []enums.JobLocation{enums.JobLocationRemote}},
	})
	if err != nil {
		t.Fatalf("list pool: %v", err)
	}
	if got, want := candidateIDs(items), []int64{1}; !equalIDs(got, want) {
		t.Fatalf("unexpected pool: got %v want %v", got, want)
	}
	for _, c := range items {
		if c.Kind != enums.TargetKindUser {
			t.Fatalf("unexpected candidate kind: got %s want USER", c.Kind)
		}
	}
}
