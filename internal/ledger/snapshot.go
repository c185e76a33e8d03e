package ledger

import "time"

// MemberReceivable is one piutang anggota row in the opening balance.
type MemberReceivable struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
}

// InventoryItem is one persediaan row valued at qty times unit cost.
type InventoryItem struct {
	ItemID   string  `json:"itemId"`
	Qty      float64 `json:"qty"`
	UnitCost float64 `json:"unitCost"`
}

// SupplierPayable is one hutang supplier row in the opening balance.
type SupplierPayable struct {
	SupplierID string  `json:"supplierId"`
	Amount     float64 `json:"amount"`
}

// MemberSavings carries the three savings components for a member.
type MemberSavings struct {
	MemberID string  `json:"memberId"`
	Pokok    float64 `json:"pokok"`
	Wajib    float64 `json:"wajib"`
	Sukarela float64 `json:"sukarela"`
}

// SaldoAwalSnapshot is the opening balance of a bookkeeping period. Exactly
// one snapshot is active per cooperative and PeriodStartDate is unique across
// history. Once Locked flips true it never flips back; later changes are
// recorded as correction journals against a new in-memory copy, never by
// mutating the locked snapshot in place.
type SaldoAwalSnapshot struct {
	PeriodStartDate time.Time          `json:"periodStartDate"`
	Kas             float64            `json:"kas"`
	Bank            float64            `json:"bank"`
	Modal           float64            `json:"modal"`
	PiutangAnggota  []MemberReceivable `json:"piutangAnggota"`
	Persediaan      []InventoryItem    `json:"persediaan"`
	HutangSupplier  []SupplierPayable  `json:"hutangSupplier"`
	SimpananAnggota []MemberSavings    `json:"simpananAnggota"`
	Locked          bool               `json:"locked"`
}

// TotalPiutangAnggota sums the member receivable sub-ledger.
func (s SaldoAwalSnapshot) TotalPiutangAnggota() float64 {
	var total float64
	for _, row := range s.PiutangAnggota {
		total += SafeAmount(row.Amount)
	}
	return total
}

// TotalPersediaan values the inventory sub-ledger at qty times unit cost.
func (s SaldoAwalSnapshot) TotalPersediaan() float64 {
	var total float64
	for _, row := range s.Persediaan {
		total += SafeAmount(row.Qty) * SafeAmount(row.UnitCost)
	}
	return total
}

// TotalHutangSupplier sums the supplier payable sub-ledger.
func (s SaldoAwalSnapshot) TotalHutangSupplier() float64 {
	var total float64
	for _, row := range s.HutangSupplier {
		total += SafeAmount(row.Amount)
	}
	return total
}

// TotalSimpananPokok sums the pokok component across all members.
func (s SaldoAwalSnapshot) TotalSimpananPokok() float64 {
	var total float64
	for _, row := range s.SimpananAnggota {
		total += SafeAmount(row.Pokok)
	}
	return total
}

// TotalSimpananWajib sums the wajib component across all members.
func (s SaldoAwalSnapshot) TotalSimpananWajib() float64 {
	var total float64
	for _, row := range s.SimpananAnggota {
		total += SafeAmount(row.Wajib)
	}
	return total
}

// TotalSimpananSukarela sums the sukarela component across all members.
func (s SaldoAwalSnapshot) TotalSimpananSukarela() float64 {
	var total float64
	for _, row := range s.SimpananAnggota {
		total += SafeAmount(row.Sukarela)
	}
	return total
}

// AggregateFor returns the snapshot's aggregate for a fixed account code.
// Codes outside the fixed chart aggregate to zero.
func (s SaldoAwalSnapshot) AggregateFor(code string) float64 {
	switch code {
	case CodeKas:
		return SafeAmount(s.Kas)
	case CodeBank:
		return SafeAmount(s.Bank)
	case CodePiutangAnggota:
		return s.TotalPiutangAnggota()
	case CodePersediaan:
		return s.TotalPersediaan()
	case CodeHutangSupplier:
		return s.TotalHutangSupplier()
	case CodeSimpananPokok:
		return s.TotalSimpananPokok()
	case CodeSimpananWajib:
		return s.TotalSimpananWajib()
	case CodeSimpananSukarela:
		return s.TotalSimpananSukarela()
	case CodeModalKoperasi:
		return SafeAmount(s.Modal)
	default:
		return 0
	}
}

// Clone returns a deep copy so diffing old versus new never aliases the
// stored sub-ledger slices.
func (s SaldoAwalSnapshot) Clone() SaldoAwalSnapshot {
	out := s
	out.PiutangAnggota = append([]MemberReceivable(nil), s.PiutangAnggota...)
	out.Persediaan = append([]InventoryItem(nil), s.Persediaan...)
	out.HutangSupplier = append([]SupplierPayable(nil), s.HutangSupplier...)
	out.SimpananAnggota = append([]MemberSavings(nil), s.SimpananAnggota...)
	return out
}
