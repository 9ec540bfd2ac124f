package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
)

const defaultPoolCap = 500

// CatalogRepo reads the minimal application, company and user projections the engine
// needs. The canonical records are owned elsewhere; only views are written here.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

const applicationColumns = `
	a.id,
	a.company_id,
	c.owner_id,
	a.title,
	a.description,
	a.location,
	a.job_type,
	a.experience_level,
	c.industry,
	a.views,
	a.created_at`

func (r *CatalogRepo) GetApplication(ctx context.Context, applicationID int64) (model.Application, error) {
	row := r.pool.QueryRow(ctx, `
SELECT`+applicationColumns+`
FROM applications a
JOIN companies c ON c.id = a.company_id
WHERE a.id = $1
`, applicationID)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, apperrors.NewNotFoundError("application", applicationID)
		}
		return model.Application{}, classify("get application", err)
	}
	return app, nil
}

// ListApplications returns the projections for ids in the order given; unknown ids are skipped.
func (r *CatalogRepo) ListApplications(ctx context.Context, ids []int64) ([]model.Application, error) {
	if len(ids) == 0 {
		return []model.Application{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+applicationColumns+`
FROM applications a
JOIN companies c ON c.id = a.company_id
WHERE a.id = ANY($1::bigint[])
`, ids)
	if err != nil {
		return nil, classify("list applications", err)
	}
	defer rows.Close()

	byID := make(map[int64]model.Application, len(ids))
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		byID[app.ID] = app
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list applications", err)
	}

	items := make([]model.Application, 0, len(byID))
	for _, id := range ids {
		if app, ok := byID[id]; ok {
			items = append(items, app)
		}
	}
	return items, nil
}

func (r *CatalogRepo) GetUser(ctx context.Context, userID int64) (model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, username, location, job_type, experience_level, industry, created_at
FROM users
WHERE id = $1
`, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Location,
		&user.JobType,
		&user.ExperienceLevel,
		&user.Industry,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, apperrors.NewNotFoundError("user", userID)
		}
		return model.User{}, classify("get user", err)
	}
	return user, nil
}

func (r *CatalogRepo) ListUsers(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, username, location, job_type, experience_level, industry, created_at
FROM users
WHERE id = ANY($1::bigint[])
`, ids)
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	byID := make(map[int64]model.User, len(ids))
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Location, &user.JobType, &user.ExperienceLevel, &user.Industry, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list users", err)
	}

	items := make([]model.User, 0, len(byID))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			items = append(items, user)
		}
	}
	return items, nil
}

func (r *CatalogRepo) AccountExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
`, userID).Scan(&exists)
	if err != nil {
		return false, classify("check account exists", err)
	}
	return exists, nil
}

// GetPreference returns the saved filter; a user without one gets the empty filter.
func (r *CatalogRepo) GetPreference(ctx context.Context, userID int64) (model.PreferenceFilter, error) {
	var locations, jobTypes, levels, industries []string
	err := r.pool.QueryRow(ctx, `
SELECT locations, job_types, experience_levels, industries
FROM user_preferences
WHERE user_id = $1
`, userID).Scan(&locations, &jobTypes, &levels, &industries)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PreferenceFilter{}, nil
		}
		return model.PreferenceFilter{}, classify("get preference", err)
	}

	pref, err := rules.ParsePreference(locations, jobTypes, levels, industries)
	if err != nil {
		return model.PreferenceFilter{}, fmt.Errorf("saved preference of user %d: %w", userID, err)
	}
	return pref, nil
}

func (r *CatalogRepo) IncrementViews(ctx context.Context, applicationID int64) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx, `
UPDATE applications
SET views = views + 1
WHERE id = $1
RETURNING views
`, applicationID).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFoundError("application", applicationID)
		}
		return 0, classify("increment application views", err)
	}
	return views, nil
}

// ListPool returns a random sample of at most q.Cap candidates of q.TargetKind that
// pass the preference filter, are not owned by q.OwnerID and were not RIGHT-swiped
// by q.ActorID.
func (r *CatalogRepo) ListPool(ctx context.Context, q model.PoolQuery) ([]model.Candidate, error) {
	if q.Cap <= 0 {
		q.Cap = defaultPoolCap
	}
	exclude := q.ExcludeIDs
	if exclude == nil {
		exclude = []int64{}
	}
	args := []any{
		q.ActorID,
		string(q.TargetKind),
		q.OwnerID,
		exclude,
		rules.Codes(q.Preference.Locations),
		rules.Codes(q.Preference.JobTypes),
		rules.Codes(q.Preference.ExperienceLevels),
		rules.Codes(q.Preference.Industries),
		q.Cap,
	}

	var sql string
	switch q.TargetKind {
	case enums.TargetKindApplication:
		sql = `
SELECT a.id, c.owner_id, a.location, a.job_type, a.experience_level, c.industry
FROM applications a
JOIN companies c ON c.id = a.company_id
WHERE
	c.owner_id <> $3
	AND NOT (a.id = ANY($4::bigint[]))
	AND (cardinality($5::text[]) = 0 OR a.location = ANY($5::text[]))
	AND (cardinality($6::text[]) = 0 OR a.job_type = ANY($6::text[]))
	AND (cardinality($7::text[]) = 0 OR a.experience_level = ANY($7::text[]))
	AND (cardinality($8::text[]) = 0 OR c.industry = ANY($8::text[]))
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.actor_id = $1
			AND s.target_id = a.id
			AND s.target_kind = $2
			AND s.direction = 'RIGHT'
	)
ORDER BY random()
LIMIT $9
`
	case enums.TargetKindUser:
		sql = `
SELECT u.id, u.id, u.location, u.job_type, u.experience_level, u.industry
FROM users u
WHERE
	u.id <> $3
	AND NOT (u.id = ANY($4::bigint[]))
	AND (cardinality($5::text[]) = 0 OR u.location = ANY($5::text[]))
	AND (cardinality($6::text[]) = 0 OR u.job_type = ANY($6::text[]))
	AND (cardinality($7::text[]) = 0 OR u.experience_level = ANY($7::text[]))
	AND (cardinality($8::text[]) = 0 OR u.industry = ANY($8::text[]))
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.actor_id = $1
			AND s.target_id = u.id
			AND s.target_kind = $2
			AND s.direction = 'RIGHT'
	)
ORDER BY random()
LIMIT $9
`
	default:
		return nil, fmt.Errorf("unsupported target kind %q", q.TargetKind)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify("list candidate pool", err)
	}
	defer rows.Close()

	items := make([]model.Candidate, 0, q.Cap)
	for rows.Next() {
		c := model.Candidate{Kind: q.TargetKind}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Location, &c.JobType, &c.ExperienceLevel, &c.Industry); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list candidate pool", err)
	}

	return items, nil
}

func scanApplication(row pgx.Row) (model.Application, error) {
	var app model.Application
	err := row.Scan(
		&app.ID,
		&app.CompanyID,
		&app.OwnerID,
		&app.Title,
		&app.Description,
		&app.Location,
		&app.JobType,
		&app.ExperienceLevel,
		&app.Industry,
		&app.Views,
		&app.CreatedAt,
	)
	return app, err
}
