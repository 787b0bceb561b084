package handlers

import (
	"net/http"
	"strings"

	"savoria/models"
	"savoria/services/chat"
	"savoria/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxHistoryTurns bounds how much conversation history a single turn
// carries into intent resolution.
const maxHistoryTurns = 6

// ChatHandler exposes the conversational endpoint.
type ChatHandler struct {
	Chat chat.Service
}

func NewChatHandler(svc chat.Service) *ChatHandler {
	return &ChatHandler{Chat: svc}
}

// HandleChat handles POST /api/chat.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	reply, err := h.Chat.HandleTurn(c.Request.Context(), sessionID, message, history)
	if err != nil {
		logger.Error("chat turn failed", zap.String("sessionID", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again."})
		return
	}

	history = append(history,
		models.Turn{Speaker: models.SpeakerUser, Text: message},
		models.Turn{Speaker: models.SpeakerBot, Text: reply},
	)

	c.JSON(http.StatusOK, models.ChatResponse{
		Reply:     reply,
		History:   history,
		SessionID: sessionID,
	})
}
