package loans

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists derived loan records.
type Repository interface {
	InsertLoans(ctx context.Context, records []LoanRecord) error
	ListByMember(ctx context.Context, memberID string) ([]LoanRecord, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the PostgreSQL-backed loan Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) InsertLoans(ctx context.Context, records []LoanRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`INSERT INTO loans
(id, member_id, principal, rate, term_months, due_date, status, remaining_principal, origination_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.ID, rec.MemberID, rec.Principal, rec.Rate, rec.TermMonths,
			rec.DueDate, rec.Status, rec.RemainingPrincipal, rec.OriginationDate)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("loans: insert batch: %w", err)
		}
	}
	return nil
}

func (r *repository) ListByMember(ctx context.Context, memberID string) ([]LoanRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT id, member_id, principal, rate, term_months, due_date, status, remaining_principal, origination_date
FROM loans WHERE member_id = $1 ORDER BY origination_date`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []LoanRecord
	for rows.Next() {
		var rec LoanRecord
		if err := rows.Scan(&rec.ID, &rec.MemberID, &rec.Principal, &rec.Rate, &rec.TermMonths,
			&rec.DueDate, &rec.Status, &rec.RemainingPrincipal, &rec.OriginationDate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
