package period

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
	"github.com/koperasi-erp/koperasi-erp/internal/shared"
)

// AuditPort records period lifecycle events for compliance.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Poster hands finished journals to the general ledger sink. The engine
// never posts directly; the production implementation enqueues a background
// task so the HTTP request does not wait on ledger writes.
type Poster interface {
	PostJournal(ctx context.Context, description string, lines []ledger.JournalLine, date time.Time) error
}

// Mutex serialises read-compute-write sections over the shared snapshot so
// concurrent editors cannot lose updates.
type Mutex interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// Service orchestrates the saldo awal lifecycle.
type Service struct {
	logger *slog.Logger
	store  Store
	audit  AuditPort
	poster Poster
	mutex  Mutex
	now    func() time.Time
}

// NewService constructs the period service. A nil logger falls back to
// slog.Default.
func NewService(logger *slog.Logger, store Store, audit AuditPort, poster Poster, mutex Mutex) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, store: store, audit: audit, poster: poster, mutex: mutex, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Snapshot returns the active snapshot, or ErrNoPeriod when none exists.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if snap == nil {
		return Snapshot{}, ErrNoPeriod
	}
	return *snap, nil
}

// DirectChange reports whether direct snapshot mutation is currently allowed.
func (s *Service) DirectChange(ctx context.Context) (DirectChangeDecision, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return DirectChangeDecision{}, err
	}
	return ValidateDirectChange(snap), nil
}

// OpenPeriod creates the saldo awal snapshot for a fresh period. Only one
// unlocked snapshot may be active; a locked predecessor stays in history and
// a new period starts as a brand new snapshot.
func (s *Service) OpenPeriod(ctx context.Context, in OpenPeriodInput) (Snapshot, error) {
	if err := in.Validate(); err != nil {
		return Snapshot{}, err
	}
	current, err := s.store.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if current != nil && !current.Locked {
		return Snapshot{}, ErrActivePeriodOpen
	}
	snap := &Snapshot{SaldoAwalSnapshot: in.toSnapshot()}
	if err := s.store.Insert(ctx, snap); err != nil {
		return Snapshot{}, err
	}
	s.record(ctx, in.ActorID, "period.open", snap.ID, map[string]any{
		"period_start_date": snap.PeriodStartDate.Format("2006-01-02"),
	})
	return *snap, nil
}

// UpdateSnapshot applies a direct mutation to the unlocked snapshot. Once
// the period is locked this fails with ErrPeriodLocked; callers must use
// the correction journal path instead.
func (s *Service) UpdateSnapshot(ctx context.Context, in UpdateSnapshotInput) (Snapshot, error) {
	var out Snapshot
	err := s.withPeriodLock(ctx, func(ctx context.Context) error {
		snap, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		if snap == nil {
			return ErrNoPeriod
		}
		if decision := ValidateDirectChange(snap); !decision.Allowed {
			return ErrPeriodLocked
		}
		snap.Kas = in.Kas
		snap.Bank = in.Bank
		snap.Modal = in.Modal
		snap.PiutangAnggota = in.PiutangAnggota
		snap.Persediaan = in.Persediaan
		snap.HutangSupplier = in.HutangSupplier
		snap.SimpananAnggota = in.SimpananAnggota
		if err := s.store.Update(ctx, snap); err != nil {
			return err
		}
		out = *snap
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	s.record(ctx, in.ActorID, "period.update", out.ID, nil)
	return out, nil
}

// LockPeriod freezes the snapshot and posts the opening journal. Locking is
// terminal; calling it twice returns ErrPeriodLocked. The journal is
// enqueued before the locked flag is written: a failed enqueue leaves the
// period unlocked and the lock retryable.
func (s *Service) LockPeriod(ctx context.Context, actorID int64) (Snapshot, []ledger.JournalLine, error) {
	var out Snapshot
	var journal []ledger.JournalLine
	err := s.withPeriodLock(ctx, func(ctx context.Context) error {
		snap, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		if snap == nil {
			return ErrNoPeriod
		}
		if snap.Locked {
			return ErrPeriodLocked
		}
		journal = ledger.BuildOpeningJournal(snap.SaldoAwalSnapshot)
		balance := ledger.ValidateBalance(journal)
		if !balance.IsValid {
			return fmt.Errorf("%w: %s", ErrSnapshotUnbalanced, balance.Message)
		}
		if s.poster != nil && len(journal) > 0 {
			desc := fmt.Sprintf("Jurnal saldo awal periode %s", snap.PeriodStartDate.Format("02-01-2006"))
			if err := s.poster.PostJournal(ctx, desc, journal, snap.PeriodStartDate); err != nil {
				return err
			}
		}
		snap.Locked = true
		if err := s.store.Update(ctx, snap); err != nil {
			return err
		}
		out = *snap
		return nil
	})
	if err != nil {
		return Snapshot{}, nil, err
	}
	s.record(ctx, actorID, "period.lock", out.ID, map[string]any{
		"lines": len(journal),
	})
	return out, journal, nil
}

// ApplyCorrection diffs the locked snapshot against the supplied values and
// records the resulting balanced correction journal. The whole
// read-diff-write section runs under the period mutex, and the journal is
// enqueued before the snapshot write: a failed enqueue leaves the stored
// snapshot untouched and the correction retryable. A correction that
// changes nothing succeeds with an empty journal and writes nothing.
func (s *Service) ApplyCorrection(ctx context.Context, in CorrectionInput) (CorrectionResult, error) {
	var result CorrectionResult
	err := s.withPeriodLock(ctx, func(ctx context.Context) error {
		snap, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		if snap == nil {
			return ErrNoPeriod
		}
		if !snap.Locked {
			return ErrPeriodNotLocked
		}
		oldSnap := snap.SaldoAwalSnapshot.Clone()
		newSnap := oldSnap.Clone()
		newSnap.Kas = in.Kas
		newSnap.Bank = in.Bank
		newSnap.Modal = in.Modal
		newSnap.PiutangAnggota = in.PiutangAnggota
		newSnap.Persediaan = in.Persediaan
		newSnap.HutangSupplier = in.HutangSupplier
		newSnap.SimpananAnggota = in.SimpananAnggota

		journal := ledger.BuildCorrectionJournal(oldSnap, newSnap)
		balance := ledger.ValidateBalance(journal)
		if len(journal) == 0 {
			result = CorrectionResult{Journal: []ledger.JournalLine{}, Balance: balance, Snapshot: *snap, NoOp: true}
			return nil
		}
		if !balance.IsValid {
			return fmt.Errorf("%w: %s", ledger.ErrUnbalanced, balance.Message)
		}
		if s.poster != nil {
			memo := in.Memo
			if memo == "" {
				memo = fmt.Sprintf("Jurnal koreksi saldo awal sebesar %s", FormatRupiah(balance.TotalDebit))
			}
			if err := s.poster.PostJournal(ctx, memo, journal, s.now()); err != nil {
				return err
			}
		}
		snap.SaldoAwalSnapshot = newSnap
		if err := s.store.Update(ctx, snap); err != nil {
			return err
		}
		result = CorrectionResult{Journal: journal, Balance: balance, Snapshot: *snap}
		return nil
	})
	if err != nil {
		return CorrectionResult{}, err
	}
	if result.NoOp {
		return result, nil
	}
	s.record(ctx, in.ActorID, "period.correction", result.Snapshot.ID, map[string]any{
		"lines":       len(result.Journal),
		"total_debit": result.Balance.TotalDebit,
	})
	return result, nil
}

// CheckEquation projects the active snapshot onto the default chart and
// validates the accounting equation over it.
func (s *Service) CheckEquation(ctx context.Context) (ledger.EquationResult, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return ledger.EquationResult{}, err
	}
	if snap == nil {
		return ledger.EquationResult{}, ErrNoPeriod
	}
	chart := ledger.ProjectSnapshot(ledger.DefaultChartOfAccounts(), snap.SaldoAwalSnapshot)
	return ledger.ValidateEquation(chart), nil
}

// ProjectedChart returns the default chart with the active snapshot applied.
func (s *Service) ProjectedChart(ctx context.Context) ([]ledger.Account, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoPeriod
	}
	return ledger.ProjectSnapshot(ledger.DefaultChartOfAccounts(), snap.SaldoAwalSnapshot), nil
}

func (s *Service) withPeriodLock(ctx context.Context, fn func(context.Context) error) error {
	if s.mutex == nil {
		return fn(ctx)
	}
	return s.mutex.WithLock(ctx, shared.PeriodLockKey(), fn)
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "saldo_awal_snapshot",
		EntityID: fmt.Sprintf("%d", entityID),
		Meta:     meta,
		At:       s.now(),
	})
	if err != nil {
		s.logger.Warn("audit record failed",
			slog.String("action", action),
			slog.Int64("entity_id", entityID),
			slog.Any("error", err))
	}
}
