package ledger

import "math"

// BalanceResult reports the outcome of a journal balance check.
type BalanceResult struct {
	IsValid     bool    `json:"isValid"`
	TotalDebit  float64 `json:"totalDebit"`
	TotalCredit float64 `json:"totalCredit"`
	Difference  float64 `json:"difference"`
	Message     string  `json:"message"`
}

// ValidateBalance verifies that the journal's total debit equals its total
// credit within Tolerance. It never panics: a nil line set yields an invalid
// result with zeroed totals so callers can always inspect the outcome.
func ValidateBalance(lines []JournalLine) BalanceResult {
	if lines == nil {
		return BalanceResult{
			IsValid: false,
			Message: "jurnal kosong atau bukan daftar baris yang valid",
		}
	}
	var debit, credit float64
	for _, line := range lines {
		debit += SafeAmount(line.Debit)
		credit += SafeAmount(line.Credit)
	}
	diff := debit - credit
	res := BalanceResult{
		TotalDebit:  debit,
		TotalCredit: credit,
		Difference:  diff,
		IsValid:     math.Abs(diff) < Tolerance,
	}
	if res.IsValid {
		res.Message = "jurnal seimbang"
	} else {
		res.Message = "total debit tidak sama dengan total kredit"
	}
	return res
}

// EquationResult reports the outcome of an accounting equation check.
type EquationResult struct {
	IsValid        bool    `json:"isValid"`
	TotalAsset     float64 `json:"totalAsset"`
	TotalLiability float64 `json:"totalLiability"`
	TotalEquity    float64 `json:"totalEquity"`
	Difference     float64 `json:"difference"`
	Message        string  `json:"message"`
}

// ValidateEquation verifies Asset = Liability + Equity across a chart
// snapshot, within Tolerance. Accounts with unknown types are ignored.
func ValidateEquation(accounts []Account) EquationResult {
	if accounts == nil {
		return EquationResult{
			IsValid: false,
			Message: "daftar akun kosong atau tidak valid",
		}
	}
	var asset, liability, equity float64
	for _, acc := range accounts {
		balance := SafeAmount(acc.Balance)
		switch acc.Type {
		case AccountTypeAsset:
			asset += balance
		case AccountTypeLiability:
			liability += balance
		case AccountTypeEquity:
			equity += balance
		}
	}
	diff := asset - (liability + equity)
	res := EquationResult{
		TotalAsset:     asset,
		TotalLiability: liability,
		TotalEquity:    equity,
		Difference:     diff,
		IsValid:        math.Abs(diff) < Tolerance,
	}
	if res.IsValid {
		res.Message = "persamaan akuntansi terpenuhi"
	} else {
		res.Message = "aset tidak sama dengan kewajiban ditambah ekuitas"
	}
	return res
}
