package dto

type GateResponse struct {
	Screen          string `json:"screen"`
	ProfileComplete bool   `json:"profile_complete"`
}
