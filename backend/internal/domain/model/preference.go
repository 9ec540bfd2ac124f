package model

import "github.com/TLN1/linkr-back/backend/internal/domain/enums"

// PreferenceFilter is a conjunctive filter; an empty set on a dimension imposes no constraint.
type PreferenceFilter struct {
	Locations        []enums.JobLocation     `json:"locations" yaml:"locations"`
	JobTypes         []enums.JobType         `json:"job_types" yaml:"job_types"`
	ExperienceLevels []enums.ExperienceLevel `json:"experience_levels" yaml:"experience_levels"`
	Industries       []enums.Industry        `json:"industries" yaml:"industries"`
}

func (p PreferenceFilter) IsEmpty() bool {
	return len(p.Locations) == 0 && len(p.JobTypes) == 0 && len(p.ExperienceLevels) == 0 && len(p.Industries) == 0
}
