package dto

type SwipeRequest struct {
	TargetUserID string `json:"target_user_id"`
	Direction    string `json:"direction"`
}

type SwipeResponse struct {
	Direction    string `json:"direction"`
	MatchCreated bool   `json:"match_created"`
	MatchID      string `json:"match_id,omitempty"`
}
