package dto

import "time"

type MatchItemResponse struct {
	ID        string           `json:"id"`
	OtherUser FeedCardResponse `json:"other_user"`
	CreatedAt time.Time        `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type MatchResponse struct {
	ID          string    `json:"id"`
	UserAID     string    `json:"user_a_id"`
	UserBID     string    `json:"user_b_id"`
	OtherUserID string    `json:"other_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
