// File: services/assist/gemini.go
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bayassist/config"
	"bayassist/models"
	"bayassist/utils"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiChatModel implements ChatModel on the Gemini tool-calling API.
type GeminiChatModel struct {
	client    *genai.Client
	modelName string
	retries   int
}

func NewGeminiChatModel(apiKey string) *GeminiChatModel {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}
	return &GeminiChatModel{
		client:    client,
		modelName: config.AppConfig.GeminiModel,
		retries:   config.AppConfig.ModelRetries,
	}
}

type geminiSession struct {
	chat        *genai.ChatSession
	userMessage string
	retries     int
}

// StartSession configures a fresh model with the request's system
// instructions, tools, and history. Nothing is shared between sessions.
func (g *GeminiChatModel) StartSession(ctx context.Context, req ChatRequest) (ChatSession, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstructions)}}
	if req.Catalog != nil {
		model.Tools = req.Catalog.GeminiTools()
	}

	chat := model.StartChat()
	chat.History = toGeminiHistory(req.History)

	return &geminiSession{
		chat:        chat,
		userMessage: req.UserMessage,
		retries:     g.retries,
	}, nil
}

func (s *geminiSession) Send(ctx context.Context) (*Decision, error) {
	return s.send(ctx, genai.Text(s.userMessage))
}

func (s *geminiSession) SendFunctionResult(ctx context.Context, name string, result models.FunctionResult) (*Decision, error) {
	response := map[string]any{"ok": result.OK}
	for k, v := range result.Data {
		response[k] = v
	}
	if !result.OK {
		response["errorKind"] = result.ErrorKind
		response["detail"] = result.Detail
	}
	return s.send(ctx, genai.FunctionResponse{Name: name, Response: response})
}

func (s *geminiSession) send(ctx context.Context, part genai.Part) (*Decision, error) {
	var resp *genai.GenerateContentResponse
	// Model invocations are read-only; transient failures may retry.
	err := utils.Retry(ctx, s.retries, 500*time.Millisecond, func() error {
		var sendErr error
		resp, sendErr = s.chat.SendMessage(ctx, part)
		return sendErr
	})
	if err != nil {
		return nil, NewEngineError(ErrModelUnavailable, err.Error())
	}
	return decisionFromResponse(resp)
}

// decisionFromResponse reduces a Gemini response to the Reply|Call union. A
// response carrying a function call wins over any accompanying text.
func decisionFromResponse(resp *genai.GenerateContentResponse) (*Decision, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, NewEngineError(ErrModelUnavailable, "model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			return &Decision{Call: &ToolCall{Name: p.Name, Args: p.Args}}, nil
		case genai.Text:
			sb.WriteString(string(p))
		}
	}
	return &Decision{Reply: sb.String()}, nil
}

func toGeminiHistory(history []models.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		text := m.Text
		if m.SenderType == models.SenderStaff || m.SenderType == models.SenderSystem {
			role = "model"
			text = "[staff] " + m.Text
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(text)},
		})
	}
	return contents
}
