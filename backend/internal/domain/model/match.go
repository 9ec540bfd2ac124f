package model

import "time"

// MatchResult is computed from two ledger rows and never stored.
type MatchResult struct {
	UserID        int64 `json:"user_id"`
	ApplicationID int64 `json:"application_id"`
	Matched       bool  `json:"matched"`
}

// MatchEvent is handed to the notification collaborator after a swipe completes a match.
type MatchEvent struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	ApplicationID int64     `json:"application_id"`
	OwnerID       int64     `json:"owner_id"`
	CompanyID     int64     `json:"company_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type MatchItem struct {
	UserID        int64     `json:"user_id"`
	ApplicationID int64     `json:"application_id"`
	MatchedAt     time.Time `json:"matched_at"`
}
