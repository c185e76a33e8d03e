// Package ledger implements the double-entry core for the cooperative
// bookkeeping engine: balance validation, the accounting equation, opening
// balance projection onto the chart of accounts, and correction journals.
package ledger

import "errors"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
)

// Fixed account codes of the cooperative chart of accounts.
const (
	CodeKas             = "1-1000"
	CodeBank            = "1-1100"
	CodePiutangAnggota  = "1-1200"
	CodePersediaan      = "1-1300"
	CodeHutangSupplier  = "2-1000"
	CodeSimpananPokok   = "2-1100"
	CodeSimpananWajib   = "2-1200"
	CodeSimpananSukarela = "2-1300"
	CodeModalKoperasi   = "3-1000"
)

// Account models a chart of accounts node with its running balance.
type Account struct {
	Code    string      `json:"code"`
	Name    string      `json:"name"`
	Type    AccountType `json:"type"`
	Balance float64     `json:"balance"`
}

// JournalLine stores a debit or credit amount against an account code.
type JournalLine struct {
	Account string  `json:"account"`
	Debit   float64 `json:"debit"`
	Credit  float64 `json:"credit"`
}

var (
	// ErrUnbalanced indicates total debit != total credit.
	ErrUnbalanced = errors.New("ledger: journal lines must balance")
	// ErrEquationBroken indicates assets != liabilities + equity.
	ErrEquationBroken = errors.New("ledger: accounting equation violated")
)

// DefaultChartOfAccounts returns the fixed cooperative chart with zero balances.
// Account codes are stable across periods; balances are filled by projection.
func DefaultChartOfAccounts() []Account {
	return []Account{
		{Code: CodeKas, Name: "Kas", Type: AccountTypeAsset},
		{Code: CodeBank, Name: "Bank", Type: AccountTypeAsset},
		{Code: CodePiutangAnggota, Name: "Piutang Anggota", Type: AccountTypeAsset},
		{Code: CodePersediaan, Name: "Persediaan Barang", Type: AccountTypeAsset},
		{Code: CodeHutangSupplier, Name: "Hutang Supplier", Type: AccountTypeLiability},
		{Code: CodeSimpananPokok, Name: "Simpanan Pokok", Type: AccountTypeLiability},
		{Code: CodeSimpananWajib, Name: "Simpanan Wajib", Type: AccountTypeLiability},
		{Code: CodeSimpananSukarela, Name: "Simpanan Sukarela", Type: AccountTypeLiability},
		{Code: CodeModalKoperasi, Name: "Modal Koperasi", Type: AccountTypeEquity},
	}
}

// TypeOfCode reports the account type for a fixed chart code. The second
// return is false for codes outside the fixed chart.
func TypeOfCode(code string) (AccountType, bool) {
	switch code {
	case CodeKas, CodeBank, CodePiutangAnggota, CodePersediaan:
		return AccountTypeAsset, true
	case CodeHutangSupplier, CodeSimpananPokok, CodeSimpananWajib, CodeSimpananSukarela:
		return AccountTypeLiability, true
	case CodeModalKoperasi:
		return AccountTypeEquity, true
	default:
		return "", false
	}
}
