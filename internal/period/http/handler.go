// Package periodhttp exposes the saldo awal lifecycle over JSON endpoints.
package periodhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
	"github.com/koperasi-erp/koperasi-erp/internal/period"
	"github.com/koperasi-erp/koperasi-erp/internal/platform/httpx"
	"github.com/koperasi-erp/koperasi-erp/internal/shared"
)

// PeriodService is the lifecycle contract consumed by the handler.
type PeriodService interface {
	Snapshot(ctx context.Context) (period.Snapshot, error)
	DirectChange(ctx context.Context) (period.DirectChangeDecision, error)
	OpenPeriod(ctx context.Context, in period.OpenPeriodInput) (period.Snapshot, error)
	UpdateSnapshot(ctx context.Context, in period.UpdateSnapshotInput) (period.Snapshot, error)
	LockPeriod(ctx context.Context, actorID int64) (period.Snapshot, []ledger.JournalLine, error)
	ApplyCorrection(ctx context.Context, in period.CorrectionInput) (period.CorrectionResult, error)
	CheckEquation(ctx context.Context) (ledger.EquationResult, error)
	ProjectedChart(ctx context.Context) ([]ledger.Account, error)
}

// JournalMetrics counts generated journals by kind.
type JournalMetrics interface {
	RecordJournal(kind string)
}

// Handler serves the saldo awal endpoints.
type Handler struct {
	logger   *slog.Logger
	service  PeriodService
	metrics  JournalMetrics
	validate *validator.Validate
	sf       singleflight.Group
}

// NewHandler constructs the period HTTP handler.
func NewHandler(logger *slog.Logger, service PeriodService, metrics JournalMetrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		metrics:  metrics,
		validate: newValidator(),
	}
}

func (h *Handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.respondError(w, "load snapshot", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (h *Handler) handleDirectChange(w http.ResponseWriter, r *http.Request) {
	decision, err := h.service.DirectChange(r.Context())
	if err != nil {
		h.respondError(w, "direct change gate", err)
		return
	}
	httpx.JSON(w, http.StatusOK, decision)
}

func (h *Handler) handleOpenPeriod(w http.ResponseWriter, r *http.Request) {
	var req openPeriodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body JSON tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondValidation(w, err)
		return
	}
	in, err := req.toInput(actorID(r))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "periodStartDate tidak valid")
		return
	}
	snap, err := h.service.OpenPeriod(r.Context(), in)
	if err != nil {
		h.respondError(w, "open period", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSnapshotResponse(snap))
}

func (h *Handler) handleUpdateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req updateSnapshotRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body JSON tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondValidation(w, err)
		return
	}
	snap, err := h.service.UpdateSnapshot(r.Context(), req.toInput(actorID(r)))
	if err != nil {
		h.respondError(w, "update snapshot", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (h *Handler) handleLockPeriod(w http.ResponseWriter, r *http.Request) {
	snap, journal, err := h.service.LockPeriod(r.Context(), actorID(r))
	if err != nil {
		h.respondError(w, "lock period", err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordJournal("saldo_awal")
	}
	httpx.JSON(w, http.StatusOK, lockResponse{
		Snapshot: toSnapshotResponse(snap),
		Journal:  journal,
	})
}

func (h *Handler) handleCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body JSON tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondValidation(w, err)
		return
	}
	result, err := h.service.ApplyCorrection(r.Context(), req.toInput(actorID(r)))
	if err != nil {
		h.respondError(w, "apply correction", err)
		return
	}
	if h.metrics != nil && !result.NoOp {
		h.metrics.RecordJournal("koreksi")
	}
	httpx.JSON(w, http.StatusOK, correctionResponse{
		Snapshot: toSnapshotResponse(result.Snapshot),
		Journal:  result.Journal,
		Balance:  result.Balance,
		NoOp:     result.NoOp,
	})
}

// handleEquation collapses concurrent equation checks into one store read.
func (h *Handler) handleEquation(w http.ResponseWriter, r *http.Request) {
	v, err, _ := h.sf.Do("equation", func() (any, error) {
		return h.service.CheckEquation(r.Context())
	})
	if err != nil {
		h.respondError(w, "check equation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v.(ledger.EquationResult))
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.ProjectedChart(r.Context())
	if err != nil {
		h.respondError(w, "project chart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, chart)
}

func (h *Handler) respondValidation(w http.ResponseWriter, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fields := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, fe.Namespace())
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "field tidak valid: "+strings.Join(fields, ", "))
		return
	}
	httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, period.ErrNoPeriod):
		httpx.ProblemWithCode(w, http.StatusNotFound, "Not Found",
			"belum ada periode saldo awal", "NO_PERIOD")
	case errors.Is(err, period.ErrPeriodLocked):
		httpx.ProblemWithCode(w, http.StatusLocked, "Period Locked",
			"Periode sudah dikunci. Gunakan jurnal koreksi untuk mengubah saldo awal.",
			period.ReasonPeriodLocked)
	case errors.Is(err, period.ErrPeriodExists):
		httpx.ProblemWithCode(w, http.StatusConflict, "Conflict",
			"periode dengan tanggal mulai tersebut sudah ada", "PERIOD_EXISTS")
	case errors.Is(err, period.ErrActivePeriodOpen):
		httpx.ProblemWithCode(w, http.StatusConflict, "Conflict",
			"masih ada periode aktif yang belum dikunci", "ACTIVE_PERIOD_OPEN")
	case errors.Is(err, period.ErrPeriodNotLocked):
		httpx.ProblemWithCode(w, http.StatusConflict, "Conflict",
			"jurnal koreksi hanya berlaku setelah periode dikunci", "PERIOD_NOT_LOCKED")
	case errors.Is(err, period.ErrSnapshotUnbalanced), errors.Is(err, ledger.ErrUnbalanced):
		httpx.ProblemWithCode(w, http.StatusUnprocessableEntity, "Unbalanced",
			err.Error(), "UNBALANCED")
	case errors.Is(err, shared.ErrLockNotAcquired):
		httpx.ProblemWithCode(w, http.StatusConflict, "Busy",
			"snapshot sedang diubah oleh proses lain, coba lagi", "SNAPSHOT_BUSY")
	default:
		h.logError(op, err)
		httpx.RespondError(w, err)
	}
}

func (h *Handler) logError(op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
}

func actorID(r *http.Request) int64 {
	raw := strings.TrimSpace(r.Header.Get("X-Actor-ID"))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
