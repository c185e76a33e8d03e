package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
)

// GLIntegrityHandler re-checks every posted journal against the balance
// validator. A journal can only become unbalanced through operator SQL or a
// bug, so any hit is logged loudly for follow-up rather than auto-repaired.
type GLIntegrityHandler struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewGLIntegrityHandler constructs the handler.
func NewGLIntegrityHandler(pool *pgxpool.Pool, logger *slog.Logger) *GLIntegrityHandler {
	return &GLIntegrityHandler{pool: pool, logger: logger}
}

// NewGLIntegrityTask constructs the cron task.
func NewGLIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskTypeGLIntegrity, nil)
}

// ProcessTask sums debits and credits per entry and reports the offenders.
func (h *GLIntegrityHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	rows, err := h.pool.Query(ctx, `SELECT je_id, SUM(debit), SUM(credit)
FROM journal_lines GROUP BY je_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	checked, broken := 0, 0
	for rows.Next() {
		var entryID int64
		var debit, credit float64
		if err := rows.Scan(&entryID, &debit, &credit); err != nil {
			return err
		}
		checked++
		if !ledger.AmountsEqual(debit, credit) {
			broken++
			h.logger.Error("journal entry out of balance",
				slog.Int64("entry_id", entryID),
				slog.Float64("debit", debit),
				slog.Float64("credit", credit))
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	h.logger.Info("gl integrity sweep finished",
		slog.Int("entries", checked),
		slog.Int("unbalanced", broken))
	return nil
}
