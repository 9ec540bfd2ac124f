package model

import (
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

type Application struct {
	ID              int64                 `json:"id" yaml:"id"`
	CompanyID       int64                 `json:"company_id" yaml:"company_id"`
	OwnerID         int64                 `json:"owner_id" yaml:"-"`
	Title           string                `json:"title" yaml:"title"`
	Description     string                `json:"description" yaml:"description"`
	Location        enums.JobLocation     `json:"location" yaml:"location"`
	JobType         enums.JobType         `json:"job_type" yaml:"job_type"`
	ExperienceLevel enums.ExperienceLevel `json:"experience_level" yaml:"experience_level"`
	Industry        enums.Industry        `json:"industry" yaml:"-"`
	Views           int64                 `json:"views" yaml:"views"`
	CreatedAt       time.Time             `json:"created_at" yaml:"created_at"`
}

func (a Application) Candidate() Candidate {
	return Candidate{
		ID:              a.ID,
		Kind:            enums.TargetKindApplication,
		OwnerID:         a.OwnerID,
		Location:        a.Location,
		JobType:         a.JobType,
		ExperienceLevel: a.ExperienceLevel,
		Industry:        a.Industry,
	}
}

type Company struct {
	ID       int64          `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Industry enums.Industry `json:"industry" yaml:"industry"`
	OwnerID  int64          `json:"owner_id" yaml:"owner_id"`
}
