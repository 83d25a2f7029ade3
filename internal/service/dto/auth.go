package dto

type LoginRequest struct {
	PlayerName string `json:"player_name"`
}

type LoginResponse struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Token      string `json:"token"`
}
