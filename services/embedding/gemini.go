// File: services/embedding/gemini.go
package embedding

import (
	"context"
	"fmt"
	"time"

	"bayassist/config"
	"bayassist/utils"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder implements Embedder using the Gemini embedding API.
type GeminiEmbedder struct {
	model   *genai.EmbeddingModel
	version string
	retries int
}

func NewGeminiEmbedder(apiKey string) *GeminiEmbedder {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	modelName := config.AppConfig.EmbeddingModel
	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeSemanticSimilarity
	return &GeminiEmbedder{
		model:   model,
		version: modelName,
		retries: config.AppConfig.ModelRetries,
	}
}

// Embed returns the vector for the given text. The language hint is carried by
// the text itself; Gemini embeddings are multilingual.
func (g *GeminiEmbedder) Embed(ctx context.Context, text, language string) ([]float32, error) {
	var vector []float32
	// Embedding calls are read-only and safe to retry.
	err := utils.Retry(ctx, g.retries, 300*time.Millisecond, func() error {
		res, err := g.model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return fmt.Errorf("gemini embed error: %w", err)
		}
		if res.Embedding == nil || len(res.Embedding.Values) == 0 {
			return fmt.Errorf("gemini embed returned empty vector")
		}
		vector = res.Embedding.Values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

func (g *GeminiEmbedder) ModelVersion() string {
	return g.version
}
