package dto

import "time"

type ApplicationResponse struct {
	ID              int64     `json:"id"`
	CompanyID       int64     `json:"company_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	JobType         string    `json:"job_type"`
	ExperienceLevel string    `json:"experience_level"`
	Industry        string    `json:"industry"`
	Views           int64     `json:"views"`
	CreatedAt       time.Time `json:"created_at"`
}

type ApplicationsResponse struct {
	Items []ApplicationResponse `json:"items"`
}

type UserResponse struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Location        string `json:"location"`
	JobType         string `json:"job_type"`
	ExperienceLevel string `json:"experience_level"`
	Industry        string `json:"industry"`
}

type UsersResponse struct {
	Items []UserResponse `json:"items"`
}
