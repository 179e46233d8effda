// Offline evaluation runner: replays labeled historical conversations through
// the engine in dry-run mode and reports how often the suggested action
// matches what staff actually did.
//
// Usage:
//   go run ./tests -cases testdata/cases.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"bayassist/config"
	"bayassist/database"
	conversationRepo "bayassist/database/repository/conversation"
	embeddingRepo "bayassist/database/repository/embedding"
	knowledgeRepo "bayassist/database/repository/knowledge"
	"bayassist/services/assist"
	"bayassist/services/embedding"
	"bayassist/services/evaluation"
)

func main() {
	casesPath := flag.String("cases", "tests/testdata/cases.json", "path to the labeled test cases JSON")
	verbose := flag.Bool("verbose", false, "print every record, not just mismatches")
	flag.Parse()

	config.LoadConfig()
	database.InitDB()

	raw, err := os.ReadFile(*casesPath)
	if err != nil {
		log.Fatalf("Failed to read cases file: %v", err)
	}
	var cases []evaluation.TestCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		log.Fatalf("Failed to parse cases file: %v", err)
	}
	if len(cases) == 0 {
		log.Fatal("No test cases found")
	}

	embedder := embedding.NewGeminiEmbedder(config.AppConfig.GeminiAPIKey)
	store := &embedding.DefaultStoreService{
		Repo:            embeddingRepo.NewMongoEmbeddingRepo(),
		ModelVersion:    embedder.ModelVersion(),
		DefaultTopK:     config.AppConfig.SimilarityTopK,
		DefaultMinScore: config.AppConfig.SimilarityThreshold,
	}

	bookingAPI := assist.NewHTTPBookingAPI()
	catalog := assist.DefaultCatalog(bookingAPI)
	assembler := &assist.ContextAssembler{
		ConvRepo:      conversationRepo.NewMongoConversationRepo(),
		KnowledgeRepo: knowledgeRepo.NewMongoKnowledgeRepo(),
		Embedder:      embedder,
		Store:         store,
		BookingAPI:    bookingAPI,
		HistoryWindow: config.AppConfig.HistoryWindow,
	}
	orchestrator := &assist.Orchestrator{
		Chat:      assist.NewGeminiChatModel(config.AppConfig.GeminiAPIKey),
		Catalog:   catalog,
		MaxRounds: config.AppConfig.MaxModelRounds,
	}
	// No recorder and no lock: every harness request is a dry run.
	assistService := &assist.DefaultAssistService{
		Assembler:    assembler,
		Orchestrator: orchestrator,
	}

	judge, err := evaluation.NewGeminiJudge(config.AppConfig.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create judge: %v", err)
	}

	vocabulary := append(catalog.Names(), evaluation.ConversationalAction)
	harness := &evaluation.Harness{
		Assist:     assistService,
		Judge:      judge,
		Vocabulary: vocabulary,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(len(cases))*time.Minute)
	defer cancel()

	report, err := harness.Run(ctx, cases)
	if err != nil {
		log.Fatalf("Evaluation run failed: %v", err)
	}

	fmt.Printf("Cases:    %d\n", report.Total)
	fmt.Printf("Matched:  %d\n", report.Matched)
	fmt.Printf("Accuracy: %.1f%%\n", report.Accuracy*100)
	fmt.Println()
	for _, rec := range report.Records {
		if rec.Match && !*verbose {
			continue
		}
		status := "MISMATCH"
		if rec.Match {
			status = "ok"
		}
		fmt.Printf("[%s] %s: expected=%s actual=%s\n    %s\n",
			status, rec.TestCaseID, rec.ExpectedAction, rec.ActualAction, rec.Rationale)
	}
}
