// File: services/assist/orchestrator.go
package assist

import (
	"context"

	"bayassist/models"
	"bayassist/utils"

	"go.uber.org/zap"
)

// runState enumerates the orchestrator's states. The chain bound is structural:
// the loop counts model rounds and forces a terminal fallback when the budget
// is spent, so termination never depends on model behavior.
type runState int

const (
	stateStart runState = iota
	stateModelCall
	stateValidate
	stateExecute
	stateChainDecision
	stateDone
)

// Outcome is the terminal result of one orchestrator run. Every run produces
// one; there is no error path that escapes to the caller.
type Outcome struct {
	ReplyText          string
	ChosenFunction     string
	FunctionParameters map[string]any
	FunctionResult     *models.FunctionResult
	ExchangeLog        []models.ModelExchange
	// ErrorKind is the taxonomy kind when a fallback path produced the reply.
	// Empty on the happy path. Staff-debug only, never customer-facing.
	ErrorKind string
}

// Orchestrator drives the bounded tool-calling exchange for one message.
type Orchestrator struct {
	Chat      ChatModel
	Catalog   *Catalog
	MaxRounds int
}

// Run executes the state machine. dryRun is threaded into every executor call;
// with it set, no state-changing backend operation may commit.
func (o *Orchestrator) Run(ctx context.Context, req ChatRequest, dryRun bool) *Outcome {
	logger := utils.GetLogger()
	outcome := &Outcome{}

	maxRounds := o.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 3
	}

	var (
		session     ChatSession
		decision    *Decision
		pendingName string
		pendingRes  *models.FunctionResult
		rounds      int
		err         error
	)

	state := stateStart
	for state != stateDone {
		if ctx.Err() != nil {
			// Caller timeout or cancellation still yields a best-effort reply.
			o.fallback(outcome, ErrModelUnavailable, pendingRes)
			break
		}

		switch state {
		case stateStart:
			session, err = o.Chat.StartSession(ctx, req)
			if err != nil {
				logger.Error("failed to start model session", zap.Error(err))
				o.fallback(outcome, ErrModelUnavailable, nil)
				state = stateDone
				continue
			}
			state = stateModelCall

		case stateModelCall:
			if rounds >= maxRounds {
				logger.Warn("model round budget exhausted", zap.Int("rounds", rounds))
				o.fallback(outcome, ErrChainLimitExceeded, pendingRes)
				state = stateDone
				continue
			}
			rounds++

			if pendingRes == nil {
				decision, err = session.Send(ctx)
			} else {
				decision, err = session.SendFunctionResult(ctx, pendingName, *pendingRes)
				pendingRes = nil
			}
			if err != nil {
				logger.Error("model call failed", zap.Int("round", rounds), zap.Error(err))
				o.fallback(outcome, ErrModelUnavailable, outcome.FunctionResult)
				state = stateDone
				continue
			}
			o.logDecision(outcome, rounds, decision)
			state = stateValidate

		case stateValidate:
			if decision.Call == nil {
				outcome.ReplyText = decision.Reply
				state = stateDone
				continue
			}
			if err := o.Catalog.ValidateArgs(decision.Call.Name, decision.Call.Args); err != nil {
				// Never fabricate a valid call; drop to a plain reply and log
				// for catalog tuning.
				logger.Warn("function call failed validation",
					zap.String("function", decision.Call.Name), zap.Error(err))
				o.fallback(outcome, ErrFunctionValidation, nil)
				state = stateDone
				continue
			}
			state = stateExecute

		case stateExecute:
			exec, _ := o.Catalog.Executor(decision.Call.Name)
			result := exec.Execute(ctx, decision.Call.Args, dryRun)

			outcome.ChosenFunction = decision.Call.Name
			outcome.FunctionParameters = decision.Call.Args
			outcome.FunctionResult = &result
			outcome.ExchangeLog = append(outcome.ExchangeLog, models.ModelExchange{
				Round:        rounds,
				Role:         "function",
				FunctionName: decision.Call.Name,
				FunctionArgs: map[string]any{"ok": result.OK, "errorKind": result.ErrorKind},
			})

			pendingName = decision.Call.Name
			pendingRes = &result
			state = stateChainDecision

		case stateChainDecision:
			// One more model round to phrase the final reply from the
			// execution result, still under the same round budget.
			state = stateModelCall
		}
	}

	if outcome.ReplyText == "" {
		o.fallback(outcome, ErrModelUnavailable, outcome.FunctionResult)
	}
	return outcome
}

func (o *Orchestrator) logDecision(outcome *Outcome, round int, d *Decision) {
	entry := models.ModelExchange{Round: round, Role: "model"}
	if d.Call != nil {
		entry.FunctionName = d.Call.Name
		entry.FunctionArgs = d.Call.Args
	} else {
		entry.Text = d.Reply
	}
	outcome.ExchangeLog = append(outcome.ExchangeLog, entry)
}

// fallback resolves the run into a plain-language reply. Raw internal errors
// never reach the customer; the taxonomy kind goes to the staff debug payload.
func (o *Orchestrator) fallback(outcome *Outcome, kind string, result *models.FunctionResult) {
	if outcome.ErrorKind == "" {
		outcome.ErrorKind = kind
	}
	outcome.ReplyText = fallbackReply(kind, result)
}

// fallbackReply maps each failure class to distinct customer-safe phrasing.
// Drafts only; staff always review before sending.
func fallbackReply(kind string, result *models.FunctionResult) string {
	if result != nil && !result.OK {
		switch result.ErrorKind {
		case FailConflict:
			return "I'm sorry, that time has just been taken. Could we offer you a nearby slot instead? (ขออภัยค่ะ ช่วงเวลานั้นเพิ่งถูกจองไป สนใจเวลาใกล้เคียงไหมคะ)"
		case FailNotFound:
			return "I couldn't find a matching booking. Could you share the name or phone number used for the reservation?"
		case FailValidation:
			return "Could you confirm the date and time you'd like? I want to make sure we book exactly the right slot."
		case FailUpstreamError:
			return "Our booking system is taking longer than usual. We'll confirm your request shortly — sorry for the wait."
		}
	}

	switch kind {
	case ErrFunctionValidation:
		return "Could you confirm the details (date, time, and number of players)? I'll get that arranged right away."
	case ErrChainLimitExceeded:
		return "Let me double-check this with the team and get right back to you."
	default:
		return "Thanks for your message! A member of our staff will follow up with you shortly."
	}
}
