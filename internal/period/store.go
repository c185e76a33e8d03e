package period

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
)

// Store abstracts saldo awal persistence so the engine stays stateless and
// the service can be exercised against an in-memory double in tests.
type Store interface {
	// Load returns the currently active snapshot, or nil when no period
	// has been opened yet.
	Load(ctx context.Context) (*Snapshot, error)
	// Insert persists a fresh snapshot for a new period.
	Insert(ctx context.Context, snap *Snapshot) error
	// Update replaces the stored snapshot row identified by snap.ID.
	Update(ctx context.Context, snap *Snapshot) error
}

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Repository bound to the supplied pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const snapshotColumns = `id, period_start_date, kas, bank, modal,
piutang_anggota, persediaan, hutang_supplier, simpanan_anggota, locked,
created_at, updated_at`

// Load returns the most recently opened snapshot.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+snapshotColumns+`
FROM saldo_awal_snapshots ORDER BY period_start_date DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("period: load snapshot: %w", err)
	}
	return snap, nil
}

// Insert persists a new snapshot. A duplicate period_start_date maps to
// ErrPeriodExists via the unique constraint.
func (r *Repository) Insert(ctx context.Context, snap *Snapshot) error {
	piutang, persediaan, hutang, simpanan, err := marshalSubLedgers(snap.SaldoAwalSnapshot)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, `INSERT INTO saldo_awal_snapshots
(period_start_date, kas, bank, modal, piutang_anggota, persediaan, hutang_supplier, simpanan_anggota, locked)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`,
		snap.PeriodStartDate, snap.Kas, snap.Bank, snap.Modal,
		piutang, persediaan, hutang, simpanan, snap.Locked).
		Scan(&snap.ID, &snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPeriodExists
		}
		return fmt.Errorf("period: insert snapshot: %w", err)
	}
	return nil
}

// Update rewrites the stored snapshot in place. The locked flag only ever
// moves false to true here; the service enforces that ordering.
func (r *Repository) Update(ctx context.Context, snap *Snapshot) error {
	piutang, persediaan, hutang, simpanan, err := marshalSubLedgers(snap.SaldoAwalSnapshot)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE saldo_awal_snapshots
SET kas=$2, bank=$3, modal=$4, piutang_anggota=$5, persediaan=$6,
    hutang_supplier=$7, simpanan_anggota=$8, locked=$9, updated_at=NOW()
WHERE id=$1`,
		snap.ID, snap.Kas, snap.Bank, snap.Modal,
		piutang, persediaan, hutang, simpanan, snap.Locked)
	if err != nil {
		return fmt.Errorf("period: update snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoPeriod
	}
	return nil
}

func marshalSubLedgers(s ledger.SaldoAwalSnapshot) ([]byte, []byte, []byte, []byte, error) {
	piutang, err := json.Marshal(s.PiutangAnggota)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("period: marshal piutang: %w", err)
	}
	persediaan, err := json.Marshal(s.Persediaan)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("period: marshal persediaan: %w", err)
	}
	hutang, err := json.Marshal(s.HutangSupplier)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("period: marshal hutang: %w", err)
	}
	simpanan, err := json.Marshal(s.SimpananAnggota)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("period: marshal simpanan: %w", err)
	}
	return piutang, persediaan, hutang, simpanan, nil
}

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	var snap Snapshot
	var piutang, persediaan, hutang, simpanan []byte
	err := row.Scan(&snap.ID, &snap.PeriodStartDate, &snap.Kas, &snap.Bank, &snap.Modal,
		&piutang, &persediaan, &hutang, &simpanan, &snap.Locked,
		&snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(piutang, &snap.PiutangAnggota); err != nil {
		return nil, fmt.Errorf("period: unmarshal piutang: %w", err)
	}
	if err := json.Unmarshal(persediaan, &snap.Persediaan); err != nil {
		return nil, fmt.Errorf("period: unmarshal persediaan: %w", err)
	}
	if err := json.Unmarshal(hutang, &snap.HutangSupplier); err != nil {
		return nil, fmt.Errorf("period: unmarshal hutang: %w", err)
	}
	if err := json.Unmarshal(simpanan, &snap.SimpananAnggota); err != nil {
		return nil, fmt.Errorf("period: unmarshal simpanan: %w", err)
	}
	return &snap, nil
}
