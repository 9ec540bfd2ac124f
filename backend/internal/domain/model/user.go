package model

import (
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

// User is the swipe-relevant projection of an account's profile. Location and job type
// are what the user is looking for; experience level and industry describe the user.
type User struct {
	ID              int64                 `json:"id" yaml:"id"`
	Username        string                `json:"username" yaml:"username"`
	Location        enums.JobLocation     `json:"location" yaml:"location"`
	JobType         enums.JobType         `json:"job_type" yaml:"job_type"`
	ExperienceLevel enums.ExperienceLevel `json:"experience_level" yaml:"experience_level"`
	Industry        enums.Industry        `json:"industry" yaml:"industry"`
	CreatedAt       time.Time             `json:"created_at" yaml:"created_at"`
}

func (u User) Candidate() Candidate {
	return Candidate{
		ID:              u.ID,
		Kind:            enums.TargetKindUser,
		OwnerID:         u.ID,
		Location:        u.Location,
		JobType:         u.JobType,
		ExperienceLevel: u.ExperienceLevel,
		Industry:        u.Industry,
	}
}
