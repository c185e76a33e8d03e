package posting

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-erp/koperasi-erp/internal/platform/db"
)

// Repository encapsulates DB operations for posted journals.
type Repository interface {
	Insert(ctx context.Context, in PostingInput) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the PostgreSQL-backed posting Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Insert records the entry and its lines in one transaction.
func (r *repository) Insert(ctx context.Context, in PostingInput) (Entry, error) {
	if err := in.Validate(); err != nil {
		return Entry{}, err
	}
	entry := Entry{
		SourceID:    in.SourceID,
		Description: in.Description,
		Date:        in.Date,
		Status:      EntryStatusPosted,
		Lines:       in.Lines,
	}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO journal_entries (source_id, description, date, status)
VALUES ($1, $2, $3, 'POSTED') RETURNING id, number, created_at`,
			in.SourceID, in.Description, in.Date).
			Scan(&entry.ID, &entry.Number, &entry.CreatedAt)
		if err != nil {
			return err
		}
		for _, line := range in.Lines {
			if _, err := tx.Exec(ctx, `INSERT INTO journal_lines (je_id, account_code, debit, credit)
VALUES ($1, $2, $3, $4)`, entry.ID, line.Account, line.Debit, line.Credit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns posted entries without their lines, newest first.
func (r *repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, number, source_id, description, date, status, created_at
FROM journal_entries ORDER BY number DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Number, &e.SourceID, &e.Description, &e.Date, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
