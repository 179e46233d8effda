package assist

import (
	"context"
	"testing"

	"bayassist/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(model ChatModel, api BookingAPI) *Orchestrator {
	return &Orchestrator{
		Chat:      model,
		Catalog:   DefaultCatalog(api),
		MaxRounds: 3,
	}
}

func TestRunPlainReplyCallsNoFunction(t *testing.T) {
	model := &scriptedModel{script: []*Decision{
		reply("We're open 10:00-23:00 every day ka."),
	}}
	o := newTestOrchestrator(model, &fakeBookingAPI{})

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "What time do you open?"}, false)

	assert.Equal(t, "We're open 10:00-23:00 every day ka.", outcome.ReplyText)
	assert.Empty(t, outcome.ChosenFunction)
	assert.Nil(t, outcome.FunctionResult)
	assert.Empty(t, outcome.ErrorKind)
	require.Len(t, outcome.ExchangeLog, 1)
	assert.Equal(t, "model", outcome.ExchangeLog[0].Role)
}

func TestRunBookingConfirmation(t *testing.T) {
	api := &fakeBookingAPI{}
	model := &scriptedModel{script: []*Decision{
		call("create_booking", map[string]any{
			"date":  "2026-08-29",
			"start": "19:00",
			"end":   "20:00",
		}),
		reply("Booked for 19:00-20:00 tonight, see you then!"),
	}}
	o := newTestOrchestrator(model, api)

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "Confirm 19.00-20.00 ka"}, false)

	assert.Equal(t, "create_booking", outcome.ChosenFunction)
	assert.Equal(t, "19:00", outcome.FunctionParameters["start"])
	require.NotNil(t, outcome.FunctionResult)
	assert.True(t, outcome.FunctionResult.OK)
	assert.Equal(t, 1, api.creates)
	assert.Equal(t, "Booked for 19:00-20:00 tonight, see you then!", outcome.ReplyText)

	// The execution result went back to the model for the final phrasing.
	require.Len(t, model.received, 1)
	assert.True(t, model.received[0].OK)

	// model call, function execution, model reply.
	require.Len(t, outcome.ExchangeLog, 3)
	assert.Equal(t, "function", outcome.ExchangeLog[1].Role)
}

func TestRunCancellationChain(t *testing.T) {
	api := &fakeBookingAPI{bookings: []models.Booking{
		{ID: "bk-7", CustomerRef: "cust-1", Date: "2026-08-30", StartTime: "19:00"},
	}}
	model := &scriptedModel{script: []*Decision{
		call("lookup_booking", map[string]any{"customer_ref": "cust-1"}),
		call("cancel_booking", map[string]any{"booking_id": "bk-7"}),
		reply("Your 19:00 booking is cancelled. Hope to see you another day!"),
	}}
	o := &Orchestrator{Chat: model, Catalog: DefaultCatalog(api), MaxRounds: 4}

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "ยกเลิกการจองค่ะ"}, false)

	// The latest executed call is the one surfaced.
	assert.Equal(t, "cancel_booking", outcome.ChosenFunction)
	require.NotNil(t, outcome.FunctionResult)
	assert.True(t, outcome.FunctionResult.OK)
	assert.Equal(t, 1, api.cancels)
	assert.Equal(t, "Your 19:00 booking is cancelled. Hope to see you another day!", outcome.ReplyText)
	assert.Empty(t, outcome.ErrorKind)
}

func TestRunConflictProducesAlternativePhrasing(t *testing.T) {
	api := &fakeBookingAPI{createErr: &apiError{StatusCode: 409, Body: "slot taken"}}
	model := &scriptedModel{script: []*Decision{
		call("create_booking", map[string]any{
			"date":  "2026-08-29",
			"start": "19:00",
			"end":   "20:00",
		}),
		reply("I'm sorry, that slot was just taken — would 20:00 work instead?"),
	}}
	o := newTestOrchestrator(model, api)

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "Confirm 19.00 ka"}, false)

	require.NotNil(t, outcome.FunctionResult)
	assert.False(t, outcome.FunctionResult.OK)
	assert.Equal(t, FailConflict, outcome.FunctionResult.ErrorKind)
	// The model saw the failure and phrased the recovery itself.
	assert.Equal(t, "I'm sorry, that slot was just taken — would 20:00 work instead?", outcome.ReplyText)
	require.Len(t, model.received, 1)
	assert.Equal(t, FailConflict, model.received[0].ErrorKind)
}

func TestRunConflictFallbackWhenModelKeepsCalling(t *testing.T) {
	// An adversarial model that never phrases a reply still terminates and the
	// conflict-specific fallback phrasing is used.
	api := &fakeBookingAPI{createErr: &apiError{StatusCode: 409, Body: "slot taken"}}
	args := map[string]any{"date": "2026-08-29", "start": "19:00", "end": "20:00"}
	model := &scriptedModel{script: []*Decision{
		call("create_booking", args),
		call("create_booking", args),
		call("create_booking", args),
		call("create_booking", args),
	}}
	o := newTestOrchestrator(model, api)

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "Confirm 19.00 ka"}, false)

	assert.Equal(t, ErrChainLimitExceeded, outcome.ErrorKind)
	assert.Contains(t, outcome.ReplyText, "nearby slot")
	require.NotNil(t, outcome.FunctionResult)
	assert.Equal(t, FailConflict, outcome.FunctionResult.ErrorKind)
}

func TestRunChainLimitBoundsRounds(t *testing.T) {
	api := &fakeBookingAPI{}
	model := &scriptedModel{script: []*Decision{
		call("check_availability", map[string]any{"date": "2026-08-29"}),
		call("check_availability", map[string]any{"date": "2026-08-30"}),
		call("check_availability", map[string]any{"date": "2026-08-31"}),
		call("check_availability", map[string]any{"date": "2026-09-01"}),
		call("check_availability", map[string]any{"date": "2026-09-02"}),
	}}
	o := newTestOrchestrator(model, api)

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "ว่างวันไหนบ้าง"}, false)

	assert.Equal(t, ErrChainLimitExceeded, outcome.ErrorKind)
	assert.NotEmpty(t, outcome.ReplyText)
	// Exactly MaxRounds model calls were made; the rest of the script is unconsumed.
	assert.Len(t, model.script, 2)
}

func TestRunValidationFailureSkipsExecutor(t *testing.T) {
	api := &fakeBookingAPI{}
	model := &scriptedModel{script: []*Decision{
		call("create_booking", map[string]any{"date": "2026-08-29"}), // start/end missing
	}}
	o := newTestOrchestrator(model, api)

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "book me in"}, false)

	assert.Equal(t, ErrFunctionValidation, outcome.ErrorKind)
	assert.Equal(t, 0, api.creates, "invalid call must never reach the executor")
	assert.Empty(t, outcome.ChosenFunction)
	assert.NotEmpty(t, outcome.ReplyText)
}

func TestRunUnknownFunctionFallsBack(t *testing.T) {
	model := &scriptedModel{script: []*Decision{
		call("grant_free_hours", map[string]any{}),
	}}
	o := newTestOrchestrator(model, &fakeBookingAPI{})

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "free hours please"}, false)
	assert.Equal(t, ErrFunctionValidation, outcome.ErrorKind)
	assert.NotEmpty(t, outcome.ReplyText)
}

func TestRunModelUnavailableFallback(t *testing.T) {
	model := &scriptedModel{startErr: context.DeadlineExceeded}
	o := newTestOrchestrator(model, &fakeBookingAPI{})

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "hello"}, false)
	assert.Equal(t, ErrModelUnavailable, outcome.ErrorKind)
	assert.NotEmpty(t, outcome.ReplyText)
}

func TestRunCancelledContextFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &scriptedModel{script: []*Decision{reply("never reached")}}
	o := newTestOrchestrator(model, &fakeBookingAPI{})

	outcome := o.Run(ctx, ChatRequest{UserMessage: "hello"}, false)
	assert.Equal(t, ErrModelUnavailable, outcome.ErrorKind)
	assert.NotEmpty(t, outcome.ReplyText)
	assert.Equal(t, 0, model.started)
}

func TestRunDryRunNeverMutatesBackend(t *testing.T) {
	api := &fakeBookingAPI{slots: []models.AvailabilitySlot{
		{Date: "2026-08-29", StartTime: "19:00", EndTime: "20:00"},
	}}
	model := &scriptedModel{script: []*Decision{
		call("create_booking", map[string]any{
			"date":  "2026-08-29",
			"start": "19:00",
			"end":   "20:00",
		}),
		reply("That slot is free — shall I confirm?"),
	}}
	o := newTestOrchestrator(model, api)

	outcome := o.Run(context.Background(), ChatRequest{UserMessage: "Confirm 19.00 ka"}, true)

	assert.Equal(t, "create_booking", outcome.ChosenFunction)
	require.NotNil(t, outcome.FunctionResult)
	assert.True(t, outcome.FunctionResult.OK)
	assert.Equal(t, 0, api.creates, "dry run must not commit")
	assert.Equal(t, 0, api.cancels)
}

func TestFallbackReplyDistinguishesFailureKinds(t *testing.T) {
	conflict := fallbackReply(ErrExecutorFailure, &models.FunctionResult{OK: false, ErrorKind: FailConflict})
	notFound := fallbackReply(ErrExecutorFailure, &models.FunctionResult{OK: false, ErrorKind: FailNotFound})
	validation := fallbackReply(ErrExecutorFailure, &models.FunctionResult{OK: false, ErrorKind: FailValidation})
	upstream := fallbackReply(ErrExecutorFailure, &models.FunctionResult{OK: false, ErrorKind: FailUpstreamError})

	replies := []string{conflict, notFound, validation, upstream}
	seen := map[string]bool{}
	for _, r := range replies {
		assert.NotEmpty(t, r)
		assert.False(t, seen[r], "each failure kind needs distinct phrasing")
		seen[r] = true
	}

	// Raw error details never leak into customer-facing text.
	assert.NotContains(t, conflict, "409")
	assert.NotContains(t, upstream, "UPSTREAM")
}
