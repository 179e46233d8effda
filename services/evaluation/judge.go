// File: services/evaluation/judge.go
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bayassist/config"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiJudge classifies staff behavior with a secondary model, outside the
// production decision path.
type GeminiJudge struct {
	model *genai.GenerativeModel
}

func NewGeminiJudge(apiKey string) (*GeminiJudge, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create judge client: %w", err)
	}

	model := client.GenerativeModel(config.AppConfig.JudgeModel)
	model.SetTemperature(0)
	return &GeminiJudge{model: model}, nil
}

func (j *GeminiJudge) ClassifyAction(ctx context.Context, vocabulary []string, transcript string) (string, string, error) {
	prompt := fmt.Sprintf(`You are auditing a customer-service chat transcript from a golf bay venue.
Decide which single backend action the staff actually performed in response to the last customer message.
Valid actions: %s, or %q when staff only replied conversationally.

Respond with JSON only: {"action": "<one valid action>", "rationale": "<one sentence>"}

Transcript:
%s`, strings.Join(vocabulary, ", "), ConversationalAction, transcript)

	resp, err := j.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", "", fmt.Errorf("judge generate error: %w", err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
	}
	return parseVerdict(sb.String())
}

// parseVerdict tolerates code fences and stray prose around the JSON verdict.
func parseVerdict(raw string) (string, string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", "", fmt.Errorf("judge returned no JSON verdict: %q", raw)
	}

	var verdict struct {
		Action    string `json:"action"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &verdict); err != nil {
		return "", "", fmt.Errorf("failed to parse judge verdict: %w", err)
	}
	if verdict.Action == "" {
		return "", "", fmt.Errorf("judge verdict missing action")
	}
	return verdict.Action, verdict.Rationale, nil
}
