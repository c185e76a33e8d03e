// Package posting is the general-ledger sink for finished journals. The
// period engine produces balanced line sets; this package durably records
// them as posted entries.
package posting

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/koperasi-erp/koperasi-erp/internal/ledger"
)

// EntryStatus enumerates journal entry lifecycle values.
type EntryStatus string

const (
	EntryStatusPosted EntryStatus = "POSTED"
)

// Entry captures posting metadata for one recorded journal.
type Entry struct {
	ID          int64
	Number      int64
	SourceID    uuid.UUID
	Description string
	Date        time.Time
	Status      EntryStatus
	CreatedAt   time.Time
	Lines       []ledger.JournalLine
}

// PostingInput groups fields required to record a journal.
type PostingInput struct {
	SourceID    uuid.UUID
	Description string
	Date        time.Time
	Lines       []ledger.JournalLine
}

// ErrUnbalancedPosting indicates a journal reached the sink out of balance.
var ErrUnbalancedPosting = errors.New("posting: journal lines must balance")

// Validate rejects empty or unbalanced postings before they hit storage.
func (in PostingInput) Validate() error {
	if len(in.Lines) == 0 {
		return errors.New("posting: at least one line required")
	}
	if in.Description == "" {
		return errors.New("posting: description required")
	}
	if res := ledger.ValidateBalance(in.Lines); !res.IsValid {
		return ErrUnbalancedPosting
	}
	return nil
}
