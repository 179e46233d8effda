package handlers

import (
	"errors"
	"net/http"

	"bayassist/models"
	"bayassist/services/assist"
	"bayassist/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistHandler exposes the suggestion endpoint.
type AssistHandler struct {
	Svc assist.AssistService
}

// NewAssistHandler creates a new AssistHandler instance.
func NewAssistHandler(svc assist.AssistService) *AssistHandler {
	return &AssistHandler{Svc: svc}
}

// SuggestHandler produces one reply suggestion for an inbound customer
// message. With dryRun set, no backend state changes and nothing is persisted.
func (h *AssistHandler) SuggestHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid assist request", err.Error())
		return
	}

	resp, err := h.Svc.Suggest(c.Request.Context(), req)
	if err != nil {
		var engineErr *assist.EngineError
		if errors.As(err, &engineErr) && engineErr.Kind == assist.ErrInputInvalid {
			utils.JSONError(c, http.StatusBadRequest, "Invalid assist request", engineErr.Message)
			return
		}
		logger.Error("assist request failed",
			zap.String("conversationId", req.ConversationID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to produce suggestion", "")
		return
	}

	c.JSON(http.StatusOK, resp)
}
