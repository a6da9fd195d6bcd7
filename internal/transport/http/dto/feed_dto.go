package dto

type FeedCardResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Bio       string `json:"bio"`
	PhotoURL1 string `json:"photo_url_1"`
	PhotoURL2 string `json:"photo_url_2"`
}

type FeedResponse struct {
	Items []FeedCardResponse `json:"items"`
}
