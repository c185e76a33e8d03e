// Package loans derives and stores the initial loan records that accompany
// a period's saldo awal snapshot.
package loans

import "time"

// LoanStatus enumerates loan lifecycle values.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "ACTIVE"
	LoanStatusPaid   LoanStatus = "PAID"
)

// LoanInput is one raw loan row from the opening balance form. Blank rows
// (empty member id or zero principal) are legal input and simply dropped.
type LoanInput struct {
	MemberID   string    `json:"memberId"`
	Principal  float64   `json:"principal"`
	Rate       float64   `json:"rate"`
	TermMonths int       `json:"termMonths"`
	DueDate    time.Time `json:"dueDate"`
}

// LoanRecord is a derived opening loan. RemainingPrincipal starts equal to
// Principal and the status is always active at origination.
type LoanRecord struct {
	ID                 string     `json:"id"`
	MemberID           string     `json:"memberId"`
	MemberName         string     `json:"memberName"`
	Principal          float64    `json:"principal"`
	Rate               float64    `json:"rate"`
	TermMonths         int        `json:"termMonths"`
	DueDate            time.Time  `json:"dueDate"`
	Status             LoanStatus `json:"status"`
	RemainingPrincipal float64    `json:"remainingPrincipal"`
	OriginationDate    time.Time  `json:"originationDate"`
}
