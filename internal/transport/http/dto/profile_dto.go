package dto

import "time"

type ProfileUpdateRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	Bio  string `json:"bio"`
}

type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Bio       string    `json:"bio"`
	PhotoURL1 string    `json:"photo_url_1"`
	PhotoURL2 string    `json:"photo_url_2"`
	Complete  bool      `json:"complete"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PhotoUploadResponse struct {
	Slot    int             `json:"slot"`
	URL     string          `json:"url"`
	Profile ProfileResponse `json:"profile"`
}
