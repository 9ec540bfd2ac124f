package dto

import "time"

type MatchItemResponse struct {
	UserID        int64     `json:"user_id"`
	ApplicationID int64     `json:"application_id"`
	MatchedAt     time.Time `json:"matched_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type MatchEventResponse struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	ApplicationID int64     `json:"application_id"`
	OwnerID       int64     `json:"owner_id"`
	CompanyID     int64     `json:"company_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type MatchEventsResponse struct {
	Items []MatchEventResponse `json:"items"`
}
