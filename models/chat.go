package models

// ChatRequest is the payload coming from the frontend into /api/chat.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	History   []Turn `json:"history"`
	SessionID string `json:"session_id"`
}

// ChatResponse is what the chat handler returns to the frontend. The
// handler appends the user and bot turns to History after orchestration.
type ChatResponse struct {
	Reply     string `json:"reply"`
	History   []Turn `json:"history"`
	SessionID string `json:"session_id"`
}
