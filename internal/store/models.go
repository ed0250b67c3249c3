package store

type User struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ChatTurn is one user-message/AI-response pair. Timestamp is kept as the raw
// text stored in the database; rows written by this service carry RFC 3339,
// rows created through the column default carry "YYYY-MM-DD HH:MM:SS".
type ChatTurn struct {
	ChatID      int64  `json:"chat_id"`
	UserID      int64  `json:"user_id"`
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   string `json:"timestamp"`
}
