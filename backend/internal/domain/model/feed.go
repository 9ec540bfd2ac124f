package model

import "github.com/TLN1/linkr-back/backend/internal/domain/enums"

// Candidate is the minimal projection of a swipe target used for filtering and scoring.
type Candidate struct {
	ID              int64                 `json:"id"`
	Kind            enums.TargetKind      `json:"kind"`
	OwnerID         int64                 `json:"owner_id"`
	Location        enums.JobLocation     `json:"location"`
	JobType         enums.JobType         `json:"job_type"`
	ExperienceLevel enums.ExperienceLevel `json:"experience_level"`
	Industry        enums.Industry        `json:"industry"`
}

// PoolQuery narrows the candidate universe before sampling. Stores may push the
// preference and exclusion down; the selector re-applies both regardless.
type PoolQuery struct {
	ActorID    int64
	TargetKind enums.TargetKind
	ExcludeIDs []int64
	OwnerID    int64
	Preference PreferenceFilter
	Cap        int
}
