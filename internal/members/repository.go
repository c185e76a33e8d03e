package members

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-erp/koperasi-erp/internal/shared"
)

// Directory resolves member ids to member records.
type Directory interface {
	GetMember(ctx context.Context, id string) (Member, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the PostgreSQL-backed Directory.
func NewRepository(db *pgxpool.Pool) Directory {
	return &repository{db: db}
}

func (r *repository) GetMember(ctx context.Context, id string) (Member, error) {
	var m Member
	err := r.db.QueryRow(ctx, `SELECT id, nik, nama FROM members WHERE id = $1`, id).
		Scan(&m.ID, &m.NIK, &m.Nama)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, shared.ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}
