package assist

import (
	"context"
	"time"

	"bayassist/models"
	"bayassist/services/suggestion"

	"github.com/go-redis/redis/v8"
)

// AssistService produces one reviewed-by-staff suggestion per inbound customer
// message. With DryRun set the run is fully side-effect free: no backend
// commit, no suggestion persisted.
type AssistService interface {
	Suggest(ctx context.Context, req models.AssistRequest) (*models.AssistResponse, error)
}

// DefaultAssistService implements AssistService.
type DefaultAssistService struct {
	Assembler    *ContextAssembler
	Orchestrator *Orchestrator
	Recorder     suggestion.RecorderService
	Lock         *redis.Client
	LockTTL      time.Duration
}
