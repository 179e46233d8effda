package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"bayassist/services/storage"
	"bayassist/utils"

	"github.com/gin-gonic/gin"
)

// MediaHandler handles media uploads attached to knowledge entries.
type MediaHandler struct {
	StorageSvc storage.StorageService
}

// NewMediaHandler creates a new MediaHandler instance.
func NewMediaHandler(svc storage.StorageService) *MediaHandler {
	return &MediaHandler{StorageSvc: svc}
}

// allowedBuckets defines permitted buckets for knowledge media.
var allowedBuckets = map[string]bool{
	"images": true,
	"videos": true,
}

// UploadHandler stores a media file and returns its public ID, which staff
// tools attach to a knowledge entry as a media ref.
func (h *MediaHandler) UploadHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	if !allowedBuckets[bucket] {
		utils.JSONError(c, http.StatusBadRequest, "Invalid bucket", "allowed values are 'images' and 'videos'")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "File not provided", err.Error())
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save file", err.Error())
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.StorageSvc.UploadFile(c.Request.Context(), tempFilePath, "knowledge/"+bucket)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload file", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"mediaRef": publicID})
}

// DeleteHandler removes an uploaded file that is no longer referenced by any
// knowledge entry.
func (h *MediaHandler) DeleteHandler(c *gin.Context) {
	publicID := c.Param("mediaRef")
	if err := h.StorageSvc.DeleteFile(c.Request.Context(), publicID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete media", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": publicID})
}

// DownloadURLHandler resolves a media ref to a URL for the staff UI.
func (h *MediaHandler) DownloadURLHandler(c *gin.Context) {
	resourceType := c.DefaultQuery("type", "image")
	publicID := c.Param("mediaRef")

	url, err := h.StorageSvc.GetDownloadURL(c.Request.Context(), resourceType, publicID, 15*time.Minute)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Failed to resolve media URL", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
