package handlers

import (
	"net/http"

	"bayassist/models"
	"bayassist/services/knowledge"
	"bayassist/utils"

	"github.com/gin-gonic/gin"
)

// KnowledgeHandler exposes knowledge-base CRUD for staff tools.
type KnowledgeHandler struct {
	Svc knowledge.KnowledgeService
}

// NewKnowledgeHandler creates a new KnowledgeHandler instance.
func NewKnowledgeHandler(svc knowledge.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{Svc: svc}
}

// CreateHandler creates an entry; its embeddings exist before the response is
// written, so the entry is immediately searchable.
func (h *KnowledgeHandler) CreateHandler(c *gin.Context) {
	var input models.KnowledgeEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid knowledge entry", err.Error())
		return
	}

	entry, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create knowledge entry", err.Error())
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *KnowledgeHandler) UpdateHandler(c *gin.Context) {
	id := c.Param("id")

	var input models.KnowledgeEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid knowledge entry", err.Error())
		return
	}

	entry, err := h.Svc.Update(c.Request.Context(), id, input)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update knowledge entry", err.Error())
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *KnowledgeHandler) GetHandler(c *gin.Context) {
	entry, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Knowledge entry not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *KnowledgeHandler) ListHandler(c *gin.Context) {
	entries, err := h.Svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list knowledge entries", err.Error())
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *KnowledgeHandler) DeleteHandler(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete knowledge entry", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
