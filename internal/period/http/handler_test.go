package periodhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
	"github.com/koperasi-erp/koperasi-erp/internal/period"
)

type stubService struct {
	snapshot       period.Snapshot
	snapshotErr    error
	openErr        error
	updateErr      error
	lockJournal    []ledger.JournalLine
	lockErr        error
	correction     period.CorrectionResult
	correctionErr  error
	equation       ledger.EquationResult
	lastOpenInput  period.OpenPeriodInput
	lastCorrection period.CorrectionInput
}

func (s *stubService) Snapshot(context.Context) (period.Snapshot, error) {
	return s.snapshot, s.snapshotErr
}

func (s *stubService) DirectChange(context.Context) (period.DirectChangeDecision, error) {
	snap := s.snapshot
	if s.snapshotErr != nil {
		return period.ValidateDirectChange(nil), nil
	}
	return period.ValidateDirectChange(&snap), nil
}

func (s *stubService) OpenPeriod(_ context.Context, in period.OpenPeriodInput) (period.Snapshot, error) {
	s.lastOpenInput = in
	if s.openErr != nil {
		return period.Snapshot{}, s.openErr
	}
	return period.Snapshot{ID: 1, SaldoAwalSnapshot: ledger.SaldoAwalSnapshot{
		PeriodStartDate: in.PeriodStartDate,
		Kas:             in.Kas,
		Bank:            in.Bank,
		Modal:           in.Modal,
		PiutangAnggota:  in.PiutangAnggota,
		Persediaan:      in.Persediaan,
		HutangSupplier:  in.HutangSupplier,
		SimpananAnggota: in.SimpananAnggota,
	}}, nil
}

func (s *stubService) UpdateSnapshot(_ context.Context, in period.UpdateSnapshotInput) (period.Snapshot, error) {
	if s.updateErr != nil {
		return period.Snapshot{}, s.updateErr
	}
	return s.snapshot, nil
}

func (s *stubService) LockPeriod(context.Context, int64) (period.Snapshot, []ledger.JournalLine, error) {
	if s.lockErr != nil {
		return period.Snapshot{}, nil, s.lockErr
	}
	return s.snapshot, s.lockJournal, nil
}

func (s *stubService) ApplyCorrection(_ context.Context, in period.CorrectionInput) (period.CorrectionResult, error) {
	s.lastCorrection = in
	return s.correction, s.correctionErr
}

func (s *stubService) CheckEquation(context.Context) (ledger.EquationResult, error) {
	return s.equation, s.snapshotErr
}

func (s *stubService) ProjectedChart(context.Context) ([]ledger.Account, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return ledger.ProjectSnapshot(ledger.DefaultChartOfAccounts(), s.snapshot.SaldoAwalSnapshot), nil
}

type countingMetrics struct {
	kinds []string
}

func (m *countingMetrics) RecordJournal(kind string) {
	m.kinds = append(m.kinds, kind)
}

func newTestRouter(svc PeriodService, metrics JournalMetrics) http.Handler {
	h := NewHandler(nil, svc, metrics)
	r := chi.NewRouter()
	r.Route("/period", h.MountRoutes)
	return r
}

func TestGetSnapshotNoPeriodReturns404WithCode(t *testing.T) {
	svc := &stubService{snapshotErr: period.ErrNoPeriod}
	router := newTestRouter(svc, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/period/saldo-awal", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), `"code":"NO_PERIOD"`)
}

func TestUpdateSnapshotLockedReturns423WithReason(t *testing.T) {
	svc := &stubService{updateErr: period.ErrPeriodLocked}
	router := newTestRouter(svc, nil)

	body := strings.NewReader(`{"kas":100,"bank":0,"modal":100}`)
	req := httptest.NewRequest(http.MethodPut, "/period/saldo-awal", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusLocked, rr.Code)
	require.Contains(t, rr.Body.String(), period.ReasonPeriodLocked)
	require.Contains(t, rr.Body.String(), "jurnal koreksi")
}

func TestOpenPeriodValidatesBody(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc, nil)

	body := strings.NewReader(`{"periodStartDate":"not-a-date","kas":100}`)
	req := httptest.NewRequest(http.MethodPost, "/period/saldo-awal", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOpenPeriodPassesActorAndRows(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc, nil)

	body := strings.NewReader(`{
		"periodStartDate":"2026-01-01",
		"kas":1000,
		"modal":1500,
		"piutangAnggota":[{"memberId":"M001","amount":500}]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/period/saldo-awal", body)
	req.Header.Set("X-Actor-ID", "42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, int64(42), svc.lastOpenInput.ActorID)
	require.Len(t, svc.lastOpenInput.PiutangAnggota, 1)
	require.Equal(t, "M001", svc.lastOpenInput.PiutangAnggota[0].MemberID)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), svc.lastOpenInput.PeriodStartDate)
}

func TestLockPeriodRecordsJournalMetric(t *testing.T) {
	svc := &stubService{
		snapshot: period.Snapshot{ID: 7, SaldoAwalSnapshot: ledger.SaldoAwalSnapshot{
			PeriodStartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Kas:             1000, Modal: 1000, Locked: true,
		}},
		lockJournal: []ledger.JournalLine{
			{Account: ledger.CodeKas, Debit: 1000},
			{Account: ledger.CodeModalKoperasi, Credit: 1000},
		},
	}
	metrics := &countingMetrics{}
	router := newTestRouter(svc, metrics)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/period/saldo-awal/lock", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{"saldo_awal"}, metrics.kinds)

	var resp lockResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Journal, 2)
	require.True(t, resp.Snapshot.Locked)
}

func TestCorrectionNoOpSkipsJournalMetric(t *testing.T) {
	svc := &stubService{
		correction: period.CorrectionResult{
			Journal: []ledger.JournalLine{},
			Balance: ledger.ValidateBalance([]ledger.JournalLine{}),
			NoOp:    true,
		},
	}
	metrics := &countingMetrics{}
	router := newTestRouter(svc, metrics)

	body := strings.NewReader(`{"kas":100,"memo":"tidak ada perubahan"}`)
	req := httptest.NewRequest(http.MethodPost, "/period/saldo-awal/koreksi", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, metrics.kinds)
	require.Contains(t, rr.Body.String(), `"noOp":true`)
	require.Equal(t, "tidak ada perubahan", svc.lastCorrection.Memo)
}

func TestEquationEndpointReturnsResult(t *testing.T) {
	svc := &stubService{
		equation: ledger.EquationResult{IsValid: true, TotalAsset: 1000, TotalEquity: 1000, Message: "persamaan akuntansi terpenuhi"},
	}
	router := newTestRouter(svc, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/period/saldo-awal/equation", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var result ledger.EquationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.True(t, result.IsValid)
	require.Equal(t, 1000.0, result.TotalAsset)
}
