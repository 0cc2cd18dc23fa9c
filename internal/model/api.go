package model

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message  string  `json:"message"`
	History  History `json:"history"`
	Language string  `json:"language"`
	UserID   string  `json:"userId"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// SaveChatRequest is the body of POST /save-chat.
type SaveChatRequest struct {
	UserID  string  `json:"userId"`
	History History `json:"history"`
}

// LoadChatResponse is the body returned by GET /load-chat/:userId.
type LoadChatResponse struct {
	History History `json:"history"`
}

// MessageResponse is the body of successful save and clear calls.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed call. Details is only set for upstream failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
