package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SubmitGuessRequest is the request body for a guess
type SubmitGuessRequest struct {
	Club    string `json:"club"`
	Country string `json:"country"`
	Player  string `json:"player"`
	GameID  string `json:"game_id"`
	UserID  string `json:"user_id,omitempty"`
}
