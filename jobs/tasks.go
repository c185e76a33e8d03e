// Package jobs wires background work through Asynq: durable posting of
// finished journals to the general ledger and the nightly integrity sweep.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
	"github.com/koperasi-erp/koperasi-erp/internal/posting"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePostJournal posts a balanced journal to the general ledger.
	TaskTypePostJournal = "ledger:post_journal"
	// TaskTypeGLIntegrity re-verifies that stored journals still balance.
	TaskTypeGLIntegrity = "ledger:gl_integrity"
)

// PostJournalPayload carries one journal from the period engine to the sink.
type PostJournalPayload struct {
	SourceID    uuid.UUID            `json:"sourceId"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	Lines       []ledger.JournalLine `json:"lines"`
}

// NewPostJournalTask constructs an Asynq task for the payload.
func NewPostJournalTask(payload PostJournalPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePostJournal, data, asynq.MaxRetry(5)), nil
}

// PostJournalHandler processes TaskTypePostJournal tasks.
type PostJournalHandler struct {
	repo   posting.Repository
	logger *slog.Logger
}

// NewPostJournalHandler constructs the handler.
func NewPostJournalHandler(repo posting.Repository, logger *slog.Logger) *PostJournalHandler {
	return &PostJournalHandler{repo: repo, logger: logger}
}

// ProcessTask records the journal. A malformed or unbalanced payload is not
// retried: it can only come from a bug, not a transient fault.
func (h *PostJournalHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload PostJournalPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	entry, err := h.repo.Insert(ctx, posting.PostingInput{
		SourceID:    payload.SourceID,
		Description: payload.Description,
		Date:        payload.Date,
		Lines:       payload.Lines,
	})
	if err != nil {
		if errors.Is(err, posting.ErrUnbalancedPosting) {
			h.logger.Error("unbalanced journal reached posting sink",
				slog.String("source_id", payload.SourceID.String()))
			return asynq.SkipRetry
		}
		return err
	}
	h.logger.Info("journal posted",
		slog.Int64("entry_id", entry.ID),
		slog.Int64("number", entry.Number),
		slog.Int("lines", len(entry.Lines)))
	return nil
}
