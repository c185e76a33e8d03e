package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
)

// AsynqPoster implements the period service's Poster port by enqueueing a
// post-journal task instead of writing to the ledger inline. The HTTP
// request finishes as soon as the journal is durably queued.
type AsynqPoster struct {
	client *asynq.Client
}

// NewAsynqPoster constructs an AsynqPoster.
func NewAsynqPoster(client *asynq.Client) *AsynqPoster {
	return &AsynqPoster{client: client}
}

// PostJournal enqueues the journal for the worker to record.
func (p *AsynqPoster) PostJournal(ctx context.Context, description string, lines []ledger.JournalLine, date time.Time) error {
	task, err := NewPostJournalTask(PostJournalPayload{
		SourceID:    uuid.New(),
		Description: description,
		Date:        date,
		Lines:       lines,
	})
	if err != nil {
		return err
	}
	_, err = p.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
