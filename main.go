// File: bayassist/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bayassist/config"
	"bayassist/database"
	conversationRepo "bayassist/database/repository/conversation"
	embeddingRepo "bayassist/database/repository/embedding"
	knowledgeRepo "bayassist/database/repository/knowledge"
	suggestionRepo "bayassist/database/repository/suggestion"
	"bayassist/handlers"
	"bayassist/middleware"
	"bayassist/routes"
	"bayassist/services/assist"
	"bayassist/services/embedding"
	"bayassist/services/knowledge"
	"bayassist/services/suggestion"
	"bayassist/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	knowRepo := knowledgeRepo.NewMongoKnowledgeRepo()
	embedRepo := embeddingRepo.NewMongoEmbeddingRepo()
	convRepo := conversationRepo.NewMongoConversationRepo()
	sugRepo := suggestionRepo.NewMongoSuggestionRepo()

	// embedding pipeline.
	embedder := embedding.NewGeminiEmbedder(config.AppConfig.GeminiAPIKey)
	store := &embedding.DefaultStoreService{
		Repo:            embedRepo,
		ModelVersion:    embedder.ModelVersion(),
		DefaultTopK:     config.AppConfig.SimilarityTopK,
		DefaultMinScore: config.AppConfig.SimilarityThreshold,
	}

	// services.
	knowledgeService := &knowledge.DefaultKnowledgeService{
		Repo:     knowRepo,
		Store:    store,
		Embedder: embedder,
	}

	recorder := &suggestion.DefaultRecorderService{
		Repo:          sugRepo,
		KnowledgeRepo: knowRepo,
		Notify: &suggestion.FCMNotifier{
			Client: utils.FCMClient,
			Topic:  config.AppConfig.StaffTopic,
		},
	}

	bookingAPI := assist.NewHTTPBookingAPI()
	assembler := &assist.ContextAssembler{
		ConvRepo:      convRepo,
		KnowledgeRepo: knowRepo,
		Embedder:      embedder,
		Store:         store,
		BookingAPI:    bookingAPI,
		Cache:         utils.GetContextCacheClient(),
		CacheTTL:      30 * time.Minute,
		HistoryWindow: config.AppConfig.HistoryWindow,
	}
	orchestrator := &assist.Orchestrator{
		Chat:      assist.NewGeminiChatModel(config.AppConfig.GeminiAPIKey),
		Catalog:   assist.DefaultCatalog(bookingAPI),
		MaxRounds: config.AppConfig.MaxModelRounds,
	}
	assistService := &assist.DefaultAssistService{
		Assembler:    assembler,
		Orchestrator: orchestrator,
		Recorder:     recorder,
		Lock:         utils.GetContextCacheClient(),
		LockTTL:      30 * time.Second,
	}

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Assist:     handlers.NewAssistHandler(assistService),
		Knowledge:  handlers.NewKnowledgeHandler(knowledgeService),
		Suggestion: handlers.NewSuggestionHandler(recorder),
	}
	if storageSvc, err := utils.Cloudinary(); err != nil {
		logger.Sugar().Warnf("main: media storage disabled: %v", err)
	} else {
		handlerBundle.Media = handlers.NewMediaHandler(storageSvc)
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetContextCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
