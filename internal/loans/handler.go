package loans

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/koperasi-erp/koperasi-erp/internal/platform/httpx"
)

// Handler serves the opening loan endpoints.
type Handler struct {
	logger   *slog.Logger
	recorder *Recorder
	repo     Repository
	validate *validator.Validate
}

// NewHandler constructs the loans HTTP handler.
func NewHandler(logger *slog.Logger, recorder *Recorder, repo Repository) *Handler {
	return &Handler{
		logger:   logger,
		recorder: recorder,
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches loan routes.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Post("/opening", h.handleRecordOpening)
	r.Get("/member/{memberID}", h.handleListByMember)
}

type recordOpeningRequest struct {
	PeriodStartDate string      `json:"periodStartDate" validate:"required,datetime=2006-01-02"`
	Rows            []LoanInput `json:"rows"`
}

type recordOpeningResponse struct {
	Records []LoanRecord `json:"records"`
	Dropped int          `json:"dropped"`
}

func (h *Handler) handleRecordOpening(w http.ResponseWriter, r *http.Request) {
	var req recordOpeningRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body JSON tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	periodStart, err := time.Parse("2006-01-02", req.PeriodStartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "periodStartDate tidak valid")
		return
	}

	records, err := h.recorder.RecordOpeningLoans(r.Context(), req.Rows, periodStart)
	if err != nil {
		h.logger.Error("record opening loans", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.repo != nil {
		if err := h.repo.InsertLoans(r.Context(), records); err != nil {
			h.logger.Error("insert loans", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusCreated, recordOpeningResponse{
		Records: records,
		Dropped: len(req.Rows) - len(records),
	})
}

func (h *Handler) handleListByMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	if memberID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "memberID wajib diisi")
		return
	}
	records, err := h.repo.ListByMember(r.Context(), memberID)
	if err != nil {
		h.logger.Error("list loans", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []LoanRecord{}
	}
	httpx.JSON(w, http.StatusOK, records)
}
