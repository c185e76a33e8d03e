package period

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
	"github.com/koperasi-erp/koperasi-erp/internal/shared"
)

type memoryStore struct {
	snap   *Snapshot
	nextID int64
}

func (m *memoryStore) Load(ctx context.Context) (*Snapshot, error) {
	if m.snap == nil {
		return nil, nil
	}
	cp := *m.snap
	cp.SaldoAwalSnapshot = m.snap.SaldoAwalSnapshot.Clone()
	return &cp, nil
}

func (m *memoryStore) Insert(ctx context.Context, snap *Snapshot) error {
	if m.snap != nil && m.snap.PeriodStartDate.Equal(snap.PeriodStartDate) {
		return ErrPeriodExists
	}
	m.nextID++
	snap.ID = m.nextID
	snap.CreatedAt = time.Now()
	snap.UpdatedAt = snap.CreatedAt
	cp := *snap
	m.snap = &cp
	return nil
}

func (m *memoryStore) Update(ctx context.Context, snap *Snapshot) error {
	if m.snap == nil || m.snap.ID != snap.ID {
		return ErrNoPeriod
	}
	cp := *snap
	cp.UpdatedAt = time.Now()
	m.snap = &cp
	return nil
}

type recordingPoster struct {
	descriptions []string
	journals     [][]ledger.JournalLine
}

func (p *recordingPoster) PostJournal(ctx context.Context, description string, lines []ledger.JournalLine, date time.Time) error {
	p.descriptions = append(p.descriptions, description)
	p.journals = append(p.journals, lines)
	return nil
}

// flakyPoster fails the first n enqueues and records the rest.
type flakyPoster struct {
	recordingPoster
	failures int
}

func (p *flakyPoster) PostJournal(ctx context.Context, description string, lines []ledger.JournalLine, date time.Time) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("queue unavailable")
	}
	return p.recordingPoster.PostJournal(ctx, description, lines, date)
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func lockedSnapshotFixture() ledger.SaldoAwalSnapshot {
	return ledger.SaldoAwalSnapshot{
		PeriodStartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Kas:             1_000_000,
		Locked:          true,
	}
}

func newTestService(t *testing.T) (*Service, *memoryStore, *recordingPoster, *recordingAudit) {
	t.Helper()
	store := &memoryStore{}
	poster := &recordingPoster{}
	audit := &recordingAudit{}
	svc := NewService(nil, store, audit, poster, nil)
	svc.WithNow(func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) })
	return svc, store, poster, audit
}

func openPeriodInput() OpenPeriodInput {
	return OpenPeriodInput{
		PeriodStartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Kas:             2_000_000,
		Bank:            5_000_000,
		Modal:           1_000_000,
		PiutangAnggota:  []ledger.MemberReceivable{{MemberID: "AGT-001", Amount: 500_000}},
		ActorID:         7,
	}
}

func TestOpenPeriod(t *testing.T) {
	svc, store, _, audit := newTestService(t)
	snap, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	require.False(t, snap.Locked)
	require.NotZero(t, snap.ID)
	require.NotNil(t, store.snap)
	require.Len(t, audit.logs, 1)
	require.Equal(t, "period.open", audit.logs[0].Action)
}

func TestOpenPeriodRejectsSecondActivePeriod(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)

	in := openPeriodInput()
	in.PeriodStartDate = in.PeriodStartDate.AddDate(0, 1, 0)
	_, err = svc.OpenPeriod(context.Background(), in)
	require.ErrorIs(t, err, ErrActivePeriodOpen)
}

func TestOpenPeriodAfterLockedPredecessor(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	store.snap.Locked = true

	in := openPeriodInput()
	in.PeriodStartDate = in.PeriodStartDate.AddDate(1, 0, 0)
	snap, err := svc.OpenPeriod(context.Background(), in)
	require.NoError(t, err)
	require.False(t, snap.Locked)
}

func TestUpdateSnapshotWhileUnlocked(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)

	updated, err := svc.UpdateSnapshot(context.Background(), UpdateSnapshotInput{
		Kas: 3_000_000, Bank: 5_000_000, Modal: 1_000_000, ActorID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, float64(3_000_000), updated.Kas)
	require.Empty(t, updated.PiutangAnggota)
}

func TestUpdateSnapshotRejectedWhenLocked(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	store.snap.Locked = true

	_, err = svc.UpdateSnapshot(context.Background(), UpdateSnapshotInput{Kas: 1, ActorID: 7})
	require.ErrorIs(t, err, ErrPeriodLocked)
	// The stored snapshot must be untouched.
	require.Equal(t, float64(2_000_000), store.snap.Kas)
}

func TestLockPeriodPostsOpeningJournal(t *testing.T) {
	svc, store, poster, audit := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)

	snap, journal, err := svc.LockPeriod(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, snap.Locked)
	require.True(t, store.snap.Locked)
	require.NotEmpty(t, journal)
	require.True(t, ledger.ValidateBalance(journal).IsValid)
	require.Len(t, poster.journals, 1)
	require.Contains(t, poster.descriptions[0], "saldo awal")
	require.Equal(t, "period.lock", audit.logs[len(audit.logs)-1].Action)
}

func TestLockPeriodTwiceFails(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	_, _, err = svc.LockPeriod(context.Background(), 7)
	require.NoError(t, err)
	_, _, err = svc.LockPeriod(context.Background(), 7)
	require.ErrorIs(t, err, ErrPeriodLocked)
}

func TestLockPeriodFailedEnqueueKeepsPeriodUnlocked(t *testing.T) {
	store := &memoryStore{}
	poster := &flakyPoster{failures: 1}
	svc := NewService(nil, store, nil, poster, nil)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)

	_, _, err = svc.LockPeriod(context.Background(), 7)
	require.Error(t, err)
	require.False(t, store.snap.Locked, "failed enqueue must not lock the period")
	require.Empty(t, poster.journals)

	// Once the queue recovers the retry locks and posts the opening journal.
	snap, journal, err := svc.LockPeriod(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, snap.Locked)
	require.NotEmpty(t, journal)
	require.Len(t, poster.journals, 1)
}

func TestLockPeriodWithoutSnapshot(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, _, err := svc.LockPeriod(context.Background(), 7)
	require.ErrorIs(t, err, ErrNoPeriod)
}

func TestApplyCorrectionRequiresLock(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)

	_, err = svc.ApplyCorrection(context.Background(), CorrectionInput{Kas: 1, ActorID: 7})
	require.ErrorIs(t, err, ErrPeriodNotLocked)
}

func TestApplyCorrectionEmitsBalancedJournal(t *testing.T) {
	svc, store, poster, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	_, _, err = svc.LockPeriod(context.Background(), 7)
	require.NoError(t, err)

	in := CorrectionInput{
		Kas:            2_500_000, // +500k
		Bank:           5_000_000,
		Modal:          1_000_000,
		PiutangAnggota: []ledger.MemberReceivable{{MemberID: "AGT-001", Amount: 500_000}},
		ActorID:        7,
	}
	result, err := svc.ApplyCorrection(context.Background(), in)
	require.NoError(t, err)
	require.False(t, result.NoOp)
	require.Len(t, result.Journal, 2)
	require.Equal(t, ledger.CodeKas, result.Journal[0].Account)
	require.Equal(t, float64(500_000), result.Journal[0].Debit)
	require.Equal(t, ledger.CodeModalKoperasi, result.Journal[1].Account)
	require.Equal(t, float64(500_000), result.Journal[1].Credit)
	require.True(t, result.Balance.IsValid)

	// Snapshot advanced and stayed locked; correction journal was posted.
	require.Equal(t, float64(2_500_000), store.snap.Kas)
	require.True(t, store.snap.Locked)
	require.Len(t, poster.journals, 2)
}

func TestApplyCorrectionFailedEnqueueKeepsSnapshot(t *testing.T) {
	store := &memoryStore{}
	poster := &flakyPoster{}
	svc := NewService(nil, store, nil, poster, nil)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	_, _, err = svc.LockPeriod(context.Background(), 7)
	require.NoError(t, err)

	in := CorrectionInput{
		Kas:            2_500_000,
		Bank:           5_000_000,
		Modal:          1_000_000,
		PiutangAnggota: []ledger.MemberReceivable{{MemberID: "AGT-001", Amount: 500_000}},
		ActorID:        7,
	}
	poster.failures = 1
	_, err = svc.ApplyCorrection(context.Background(), in)
	require.Error(t, err)
	require.Equal(t, float64(2_000_000), store.snap.Kas, "failed enqueue must not advance the snapshot")
	require.Len(t, poster.journals, 1, "only the opening journal reached the queue")

	// The stored snapshot never advanced, so the retry is a real correction.
	result, err := svc.ApplyCorrection(context.Background(), in)
	require.NoError(t, err)
	require.False(t, result.NoOp)
	require.Len(t, result.Journal, 2)
	require.Equal(t, float64(2_500_000), store.snap.Kas)
	require.Len(t, poster.journals, 2)
}

func TestApplyCorrectionNoOp(t *testing.T) {
	svc, _, poster, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	_, _, err = svc.LockPeriod(context.Background(), 7)
	require.NoError(t, err)
	posted := len(poster.journals)

	in := CorrectionInput{
		Kas:            2_000_000,
		Bank:           5_000_000,
		Modal:          1_000_000,
		PiutangAnggota: []ledger.MemberReceivable{{MemberID: "AGT-001", Amount: 500_000}},
		ActorID:        7,
	}
	result, err := svc.ApplyCorrection(context.Background(), in)
	require.NoError(t, err)
	require.True(t, result.NoOp)
	require.Empty(t, result.Journal)
	require.Len(t, poster.journals, posted, "no-op correction must not post")
}

func TestApplyCorrectionWithoutPeriod(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.ApplyCorrection(context.Background(), CorrectionInput{ActorID: 7})
	require.ErrorIs(t, err, ErrNoPeriod)
}

func TestCheckEquationOnLockedSnapshot(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	in := OpenPeriodInput{
		PeriodStartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Kas:             1_000_000,
		HutangSupplier:  []ledger.SupplierPayable{{SupplierID: "SUP-01", Amount: 400_000}},
		Modal:           600_000,
		ActorID:         7,
	}
	_, err := svc.OpenPeriod(context.Background(), in)
	require.NoError(t, err)

	res, err := svc.CheckEquation(context.Background())
	require.NoError(t, err)
	require.True(t, res.IsValid)
	require.Equal(t, float64(1_000_000), res.TotalAsset)
	require.Equal(t, float64(400_000), res.TotalLiability)
	require.Equal(t, float64(600_000), res.TotalEquity)
}

type failingAudit struct {
	err error
}

func (a failingAudit) Record(context.Context, shared.AuditLog) error {
	return a.err
}

func TestAuditFailureIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	store := &memoryStore{}
	audit := failingAudit{err: errors.New("audit_logs unavailable")}
	svc := NewService(logger, store, audit, &recordingPoster{}, nil)

	snap, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)
	require.NotZero(t, snap.ID)
	require.Contains(t, buf.String(), "audit record failed")
	require.Contains(t, buf.String(), "period.open")
}

func TestProjectedChart(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.OpenPeriod(context.Background(), openPeriodInput())
	require.NoError(t, err)

	chart, err := svc.ProjectedChart(context.Background())
	require.NoError(t, err)
	for _, acc := range chart {
		if acc.Code == ledger.CodePiutangAnggota {
			require.Equal(t, float64(500_000), acc.Balance)
		}
	}
}
