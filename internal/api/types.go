package api

// User identifies the authenticated account as returned by the backend.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	// CreatedAt is an ISO timestamp string; the backend omits the timezone
	// suffix, so it is carried verbatim rather than parsed.
	CreatedAt string `json:"created_at,omitempty"`
}

// Chatbot is a community-created persona. Immutable from this client's point
// of view once created.
type Chatbot struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Introduction    string `json:"introduction"`
	IsCensored      bool   `json:"is_censored"`
	CreatedAt       string `json:"created_at"`
	CreatorUsername string `json:"creator_username"`
}

// Conversation pairs the current user with a chatbot and scopes a transcript.
type Conversation struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ChatbotID string `json:"chatbot_id"`
	CreatedAt string `json:"created_at"`
}

// Sender types used in Message.SenderType.
const (
	SenderUser    = "user"
	SenderChatbot = "chatbot"
)

// Message is one transcript entry.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderType     string `json:"sender_type"`
	Content        string `json:"content"`
	Timestamp      string `json:"timestamp"`
}

// MessagePair is the send-message response: the echoed user message and the
// generated reply, in that order.
type MessagePair struct {
	UserMessage Message `json:"user_message"`
	BotResponse Message `json:"bot_response"`
}

// AuthResponse is returned by the register and login endpoints.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// CreateChatbotRequest carries the composer fields for a new persona.
type CreateChatbotRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Introduction string `json:"introduction"`
	IsCensored   bool   `json:"is_censored"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type chatMessageRequest struct {
	Message string `json:"message"`
}
