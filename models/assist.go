package models

// AssistRequest is the payload coming from the staff backend into /api/assist/suggest.
type AssistRequest struct {
	ConversationID  string    `json:"conversationId" binding:"required"`
	ChannelType     string    `json:"channelType"`
	CustomerMessage string    `json:"customerMessage" binding:"required"`
	MessageID       string    `json:"messageId"`
	Language        string    `json:"language"`
	History         []Message `json:"conversationHistory,omitempty"`
	DryRun          bool      `json:"dryRun"`

	// Per-request overrides for the similarity search; zero values fall back
	// to configured defaults.
	MinScore float64 `json:"minScore,omitempty"`
	TopK     int     `json:"topK,omitempty"`
}

// AssistResponse is what the suggest endpoint returns to the staff backend.
// Nothing here is ever sent to a customer without staff approval.
type AssistResponse struct {
	SuggestedResponse  string          `json:"suggestedResponse"`
	FunctionCalled     string          `json:"functionCalled,omitempty"`
	FunctionParameters map[string]any  `json:"functionParameters,omitempty"`
	FunctionResult     *FunctionResult `json:"functionResult,omitempty"`
	ContextSummary     string          `json:"contextSummary"`
	SuggestionID       string          `json:"suggestionId"`
	DebugInfo          map[string]any  `json:"debugInfo,omitempty"`
}

// KnowledgeMatch pairs a matched knowledge entry with its similarity score.
type KnowledgeMatch struct {
	Entry KnowledgeEntry `bson:"entry" json:"entry"`
	Score float64        `bson:"score" json:"score"`
}

// CustomerContext is best-effort profile data for the customer behind a
// conversation. Absence is not an error.
type CustomerContext struct {
	CustomerRef   string   `json:"customerRef"`
	DisplayName   string   `json:"displayName,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	RecentBooking *Booking `json:"recentBooking,omitempty"`
}

// ContextBundle is everything the orchestrator feeds the model for one message.
type ContextBundle struct {
	History          []Message
	Customer         *CustomerContext
	KnowledgeMatches []KnowledgeMatch
}
