package handlers

import (
	"net/http"

	"bayassist/services/suggestion"
	"bayassist/utils"

	"github.com/gin-gonic/gin"
)

// SuggestionHandler exposes the read API over recorded suggestions.
type SuggestionHandler struct {
	Svc suggestion.RecorderService
}

// NewSuggestionHandler creates a new SuggestionHandler instance.
func NewSuggestionHandler(svc suggestion.RecorderService) *SuggestionHandler {
	return &SuggestionHandler{Svc: svc}
}

// ListByConversationHandler returns every suggestion for a conversation in
// creation order.
func (h *SuggestionHandler) ListByConversationHandler(c *gin.Context) {
	suggestions, err := h.Svc.ListByConversation(c.Request.Context(), c.Param("conversationId"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list suggestions", err.Error())
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// MarkUsedHandler flags a suggestion as sent by staff; supporting knowledge
// entries get their usage counters credited.
func (h *SuggestionHandler) MarkUsedHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.MarkUsed(c.Request.Context(), id); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Failed to mark suggestion used", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"used": id})
}
