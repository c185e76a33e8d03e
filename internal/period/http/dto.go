package periodhttp

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
	"github.com/koperasi-erp/koperasi-erp/internal/period"
)

const dateLayout = "2006-01-02"

type receivableDTO struct {
	MemberID string  `json:"memberId" validate:"required"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type inventoryDTO struct {
	ItemID   string  `json:"itemId" validate:"required"`
	Qty      float64 `json:"qty" validate:"gte=0"`
	UnitCost float64 `json:"unitCost" validate:"gte=0"`
}

type payableDTO struct {
	SupplierID string  `json:"supplierId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
}

type savingsDTO struct {
	MemberID string  `json:"memberId" validate:"required"`
	Pokok    float64 `json:"pokok" validate:"gte=0"`
	Wajib    float64 `json:"wajib" validate:"gte=0"`
	Sukarela float64 `json:"sukarela" validate:"gte=0"`
}

type snapshotValuesDTO struct {
	Kas             float64         `json:"kas"`
	Bank            float64         `json:"bank"`
	Modal           float64         `json:"modal"`
	PiutangAnggota  []receivableDTO `json:"piutangAnggota" validate:"dive"`
	Persediaan      []inventoryDTO  `json:"persediaan" validate:"dive"`
	HutangSupplier  []payableDTO    `json:"hutangSupplier" validate:"dive"`
	SimpananAnggota []savingsDTO    `json:"simpananAnggota" validate:"dive"`
}

type openPeriodRequest struct {
	PeriodStartDate string `json:"periodStartDate" validate:"required,datetime=2006-01-02"`
	snapshotValuesDTO
}

type updateSnapshotRequest struct {
	snapshotValuesDTO
}

type correctionRequest struct {
	snapshotValuesDTO
	Memo string `json:"memo" validate:"max=500"`
}

func (d snapshotValuesDTO) receivables() []ledger.MemberReceivable {
	out := make([]ledger.MemberReceivable, 0, len(d.PiutangAnggota))
	for _, row := range d.PiutangAnggota {
		out = append(out, ledger.MemberReceivable{MemberID: row.MemberID, Amount: row.Amount})
	}
	return out
}

func (d snapshotValuesDTO) inventory() []ledger.InventoryItem {
	out := make([]ledger.InventoryItem, 0, len(d.Persediaan))
	for _, row := range d.Persediaan {
		out = append(out, ledger.InventoryItem{ItemID: row.ItemID, Qty: row.Qty, UnitCost: row.UnitCost})
	}
	return out
}

func (d snapshotValuesDTO) payables() []ledger.SupplierPayable {
	out := make([]ledger.SupplierPayable, 0, len(d.HutangSupplier))
	for _, row := range d.HutangSupplier {
		out = append(out, ledger.SupplierPayable{SupplierID: row.SupplierID, Amount: row.Amount})
	}
	return out
}

func (d snapshotValuesDTO) savings() []ledger.MemberSavings {
	out := make([]ledger.MemberSavings, 0, len(d.SimpananAnggota))
	for _, row := range d.SimpananAnggota {
		out = append(out, ledger.MemberSavings{
			MemberID: row.MemberID,
			Pokok:    row.Pokok,
			Wajib:    row.Wajib,
			Sukarela: row.Sukarela,
		})
	}
	return out
}

func (r openPeriodRequest) toInput(actorID int64) (period.OpenPeriodInput, error) {
	start, err := time.Parse(dateLayout, r.PeriodStartDate)
	if err != nil {
		return period.OpenPeriodInput{}, err
	}
	return period.OpenPeriodInput{
		PeriodStartDate: start,
		Kas:             r.Kas,
		Bank:            r.Bank,
		Modal:           r.Modal,
		PiutangAnggota:  r.receivables(),
		Persediaan:      r.inventory(),
		HutangSupplier:  r.payables(),
		SimpananAnggota: r.savings(),
		ActorID:         actorID,
	}, nil
}

func (r updateSnapshotRequest) toInput(actorID int64) period.UpdateSnapshotInput {
	return period.UpdateSnapshotInput{
		Kas:             r.Kas,
		Bank:            r.Bank,
		Modal:           r.Modal,
		PiutangAnggota:  r.receivables(),
		Persediaan:      r.inventory(),
		HutangSupplier:  r.payables(),
		SimpananAnggota: r.savings(),
		ActorID:         actorID,
	}
}

func (r correctionRequest) toInput(actorID int64) period.CorrectionInput {
	return period.CorrectionInput{
		Kas:             r.Kas,
		Bank:            r.Bank,
		Modal:           r.Modal,
		PiutangAnggota:  r.receivables(),
		Persediaan:      r.inventory(),
		HutangSupplier:  r.payables(),
		SimpananAnggota: r.savings(),
		Memo:            r.Memo,
		ActorID:         actorID,
	}
}

type snapshotResponse struct {
	ID              int64                     `json:"id"`
	PeriodStartDate string                    `json:"periodStartDate"`
	Kas             float64                   `json:"kas"`
	Bank            float64                   `json:"bank"`
	Modal           float64                   `json:"modal"`
	PiutangAnggota  []ledger.MemberReceivable `json:"piutangAnggota"`
	Persediaan      []ledger.InventoryItem    `json:"persediaan"`
	HutangSupplier  []ledger.SupplierPayable  `json:"hutangSupplier"`
	SimpananAnggota []ledger.MemberSavings    `json:"simpananAnggota"`
	Locked          bool                      `json:"locked"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

func toSnapshotResponse(snap period.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:              snap.ID,
		PeriodStartDate: snap.PeriodStartDate.Format(dateLayout),
		Kas:             snap.Kas,
		Bank:            snap.Bank,
		Modal:           snap.Modal,
		PiutangAnggota:  snap.PiutangAnggota,
		Persediaan:      snap.Persediaan,
		HutangSupplier:  snap.HutangSupplier,
		SimpananAnggota: snap.SimpananAnggota,
		Locked:          snap.Locked,
		CreatedAt:       snap.CreatedAt,
		UpdatedAt:       snap.UpdatedAt,
	}
}

type lockResponse struct {
	Snapshot snapshotResponse     `json:"snapshot"`
	Journal  []ledger.JournalLine `json:"journal"`
}

type correctionResponse struct {
	Snapshot snapshotResponse     `json:"snapshot"`
	Journal  []ledger.JournalLine `json:"journal"`
	Balance  ledger.BalanceResult `json:"balance"`
	NoOp     bool                 `json:"noOp"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
