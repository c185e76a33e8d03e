// Package period manages the saldo awal lifecycle for a bookkeeping period:
// opening the snapshot, gating direct edits, locking, and routing post-lock
// changes through correction journals.
package period

import (
	"errors"
	"strings"
	"time"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
)

// ReasonPeriodLocked is the machine-readable rejection code surfaced to
// callers that attempt a direct mutation on a locked period.
const ReasonPeriodLocked = "PERIOD_LOCKED"

// Snapshot is a stored saldo awal snapshot with persistence metadata.
type Snapshot struct {
	ID        int64
	ledger.SaldoAwalSnapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrNoPeriod indicates no snapshot has been opened yet.
	ErrNoPeriod = errors.New("period: no active period")
	// ErrPeriodLocked indicates a direct mutation was attempted after lock.
	ErrPeriodLocked = errors.New("period: period locked, use correction journal")
	// ErrPeriodExists indicates a snapshot with the same start date exists.
	ErrPeriodExists = errors.New("period: period with this start date already exists")
	// ErrActivePeriodOpen indicates an unlocked snapshot is still active.
	ErrActivePeriodOpen = errors.New("period: active period still open")
	// ErrPeriodNotLocked indicates a correction was attempted before lock.
	ErrPeriodNotLocked = errors.New("period: corrections require a locked period")
	// ErrSnapshotUnbalanced indicates the snapshot fails the engine checks.
	ErrSnapshotUnbalanced = errors.New("period: snapshot does not balance")
)

// OpenPeriodInput captures the fields required to open a fresh period.
type OpenPeriodInput struct {
	PeriodStartDate time.Time
	Kas             float64
	Bank            float64
	Modal           float64
	PiutangAnggota  []ledger.MemberReceivable
	Persediaan      []ledger.InventoryItem
	HutangSupplier  []ledger.SupplierPayable
	SimpananAnggota []ledger.MemberSavings
	ActorID         int64
}

// Validate ensures the open period input is coherent.
func (in OpenPeriodInput) Validate() error {
	if in.PeriodStartDate.IsZero() {
		return errors.New("period: start date required")
	}
	for _, row := range in.PiutangAnggota {
		if strings.TrimSpace(row.MemberID) == "" {
			return errors.New("period: piutang row missing member id")
		}
		if row.Amount < 0 {
			return errors.New("period: piutang amount cannot be negative")
		}
	}
	for _, row := range in.Persediaan {
		if row.Qty < 0 || row.UnitCost < 0 {
			return errors.New("period: persediaan qty and unit cost cannot be negative")
		}
	}
	for _, row := range in.HutangSupplier {
		if row.Amount < 0 {
			return errors.New("period: hutang amount cannot be negative")
		}
	}
	for _, row := range in.SimpananAnggota {
		if row.Pokok < 0 || row.Wajib < 0 || row.Sukarela < 0 {
			return errors.New("period: simpanan components cannot be negative")
		}
	}
	return nil
}

func (in OpenPeriodInput) toSnapshot() ledger.SaldoAwalSnapshot {
	return ledger.SaldoAwalSnapshot{
		PeriodStartDate: in.PeriodStartDate,
		Kas:             in.Kas,
		Bank:            in.Bank,
		Modal:           in.Modal,
		PiutangAnggota:  in.PiutangAnggota,
		Persediaan:      in.Persediaan,
		HutangSupplier:  in.HutangSupplier,
		SimpananAnggota: in.SimpananAnggota,
	}
}

// UpdateSnapshotInput carries a full replacement of the editable snapshot
// fields. Direct updates are only legal while the period is unlocked.
type UpdateSnapshotInput struct {
	Kas             float64
	Bank            float64
	Modal           float64
	PiutangAnggota  []ledger.MemberReceivable
	Persediaan      []ledger.InventoryItem
	HutangSupplier  []ledger.SupplierPayable
	SimpananAnggota []ledger.MemberSavings
	ActorID         int64
}

// CorrectionInput carries the post-lock replacement values that the engine
// diffs against the stored snapshot to produce a correction journal.
type CorrectionInput struct {
	Kas             float64
	Bank            float64
	Modal           float64
	PiutangAnggota  []ledger.MemberReceivable
	Persediaan      []ledger.InventoryItem
	HutangSupplier  []ledger.SupplierPayable
	SimpananAnggota []ledger.MemberSavings
	Memo            string
	ActorID         int64
}

// CorrectionResult reports the outcome of an applied correction.
type CorrectionResult struct {
	Journal  []ledger.JournalLine
	Balance  ledger.BalanceResult
	Snapshot Snapshot
	NoOp     bool
}
