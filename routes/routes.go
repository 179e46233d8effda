package routes

import (
	"net/http"
	"time"

	"bayassist/handlers"
	"bayassist/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the route table needs.
type HandlerBundle struct {
	Assist     *handlers.AssistHandler
	Knowledge  *handlers.KnowledgeHandler
	Suggestion *handlers.SuggestionHandler
	Media      *handlers.MediaHandler
}

// RegisterAssistRoutes registers the suggestion endpoints.
func RegisterAssistRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/assist")
	{
		api.Use(middleware.StaffAuthMiddleware())
		api.POST("/suggest", hb.Assist.SuggestHandler)
	}
}

// RegisterKnowledgeRoutes registers knowledge-base management endpoints.
func RegisterKnowledgeRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/knowledge")
	{
		api.Use(middleware.StaffAuthMiddleware())
		api.POST("", hb.Knowledge.CreateHandler)
		api.GET("", hb.Knowledge.ListHandler)
		api.GET("/:id", hb.Knowledge.GetHandler)
		api.PUT("/:id", hb.Knowledge.UpdateHandler)
		api.DELETE("/:id", hb.Knowledge.DeleteHandler)
	}
}

// RegisterSuggestionRoutes registers the suggestion read API.
func RegisterSuggestionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/suggestions")
	{
		api.Use(middleware.StaffAuthMiddleware())
		api.GET("/conversation/:conversationId", hb.Suggestion.ListByConversationHandler)
		api.POST("/:id/used", hb.Suggestion.MarkUsedHandler)
	}
}

// RegisterMediaRoutes registers knowledge media endpoints.
func RegisterMediaRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/media")
	{
		api.Use(middleware.StaffAuthMiddleware())
		api.POST("/upload/:bucket", hb.Media.UploadHandler)
		api.GET("/url/:mediaRef", hb.Media.DownloadURLHandler)
		api.DELETE("/:mediaRef", hb.Media.DeleteHandler)
	}
}

// RegisterRoutes wires CORS, health, and all API groups.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "bayassist"})
	})

	RegisterAssistRoutes(r, hb)
	RegisterKnowledgeRoutes(r, hb)
	RegisterSuggestionRoutes(r, hb)
	// Media routes are optional when no storage backend is configured.
	if hb.Media != nil {
		RegisterMediaRoutes(r, hb)
	}
}
