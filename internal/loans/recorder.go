package loans

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koperasi-erp/koperasi-erp/internal/members"
	"github.com/koperasi-erp/koperasi-erp/internal/shared"
)

// IDFunc generates loan record identifiers. Injected so tests can pin ids.
type IDFunc func() string

// Recorder derives opening loan records from raw form rows.
type Recorder struct {
	directory members.Directory
	newID     IDFunc
}

// NewRecorder constructs a Recorder. A nil id generator falls back to uuid.
func NewRecorder(directory members.Directory, newID IDFunc) *Recorder {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Recorder{directory: directory, newID: newID}
}

// RecordOpeningLoans converts qualifying rows into loan records dated at the
// period start. A row qualifies when its member id is non-empty and its
// principal is positive; anything else models a blank form row and is
// dropped without error. Member ids unknown to the directory are dropped the
// same way. Repeated member ids each yield an independent record.
func (r *Recorder) RecordOpeningLoans(ctx context.Context, inputs []LoanInput, periodStart time.Time) ([]LoanRecord, error) {
	records := make([]LoanRecord, 0, len(inputs))
	for _, in := range inputs {
		memberID := strings.TrimSpace(in.MemberID)
		if memberID == "" || in.Principal <= 0 {
			continue
		}
		var memberName string
		if r.directory != nil {
			member, err := r.directory.GetMember(ctx, memberID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return nil, err
			}
			memberName = member.Nama
		}
		records = append(records, LoanRecord{
			ID:                 r.newID(),
			MemberID:           memberID,
			MemberName:         memberName,
			Principal:          in.Principal,
			Rate:               in.Rate,
			TermMonths:         in.TermMonths,
			DueDate:            in.DueDate,
			Status:             LoanStatusActive,
			RemainingPrincipal: in.Principal,
			OriginationDate:    periodStart,
		})
	}
	return records, nil
}
