package dto

type SwipeApplicationRequest struct {
	ApplicationID int64  `json:"application_id"`
	Direction     string `json:"direction"`
}

type SwipeUserRequest struct {
	UserID    int64  `json:"user_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	OK        bool   `json:"ok"`
	Direction string `json:"direction"`
	Matched   bool   `json:"matched"`
	Changed   bool   `json:"changed"`
}
