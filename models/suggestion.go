package models

import "time"

// ModelExchange is one entry of the model exchange log kept for staff audit.
type ModelExchange struct {
	Round        int            `bson:"round" json:"round"`
	Role         string         `bson:"role" json:"role"`
	Text         string         `bson:"text,omitempty" json:"text,omitempty"`
	FunctionName string         `bson:"function_name,omitempty" json:"functionName,omitempty"`
	FunctionArgs map[string]any `bson:"function_args,omitempty" json:"functionArgs,omitempty"`
}

// FunctionResult is the discriminated outcome of an action executor.
type FunctionResult struct {
	OK        bool           `bson:"ok" json:"ok"`
	Data      map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	ErrorKind string         `bson:"error_kind,omitempty" json:"errorKind,omitempty"`
	Detail    string         `bson:"detail,omitempty" json:"detail,omitempty"`
}

// Suggestion is the recorded output of one assist run: a suggested reply for
// staff review, plus the chosen action if any. Immutable after creation.
type Suggestion struct {
	ID                  string            `bson:"id" json:"id"`
	ConversationID      string            `bson:"conversation_id" json:"conversationId"`
	TriggeringMessageID string            `bson:"triggering_message_id" json:"triggeringMessageId"`
	ReplyText           string            `bson:"reply_text" json:"replyText"`
	ChosenFunction      string            `bson:"chosen_function,omitempty" json:"chosenFunction,omitempty"`
	FunctionParameters  map[string]any    `bson:"function_parameters,omitempty" json:"functionParameters,omitempty"`
	FunctionResult      *FunctionResult   `bson:"function_result,omitempty" json:"functionResult,omitempty"`
	SupportingMatches   []KnowledgeMatch  `bson:"supporting_matches,omitempty" json:"supportingMatches,omitempty"`
	ModelExchangeLog    []ModelExchange   `bson:"model_exchange_log" json:"modelExchangeLog"`
	Used                bool              `bson:"used" json:"used"`
	CreatedAt           time.Time         `bson:"created_at" json:"createdAt"`
}
