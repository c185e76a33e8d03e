package ledger

import "math"

// BuildCorrectionJournal diffs two saldo awal snapshots per tracked account
// and emits balanced correction lines against Modal Koperasi. The sign
// convention mirrors normal debit/credit rules:
//
//	asset up      -> debit account,  credit modal
//	asset down    -> credit account, debit modal
//	liability up  -> credit account, debit modal
//	liability down-> debit account,  credit modal
//
// Modal Koperasi itself is tracked for direct capital changes and follows
// the equity (liability-side) convention. Deltas below Tolerance are
// skipped; identical snapshots therefore produce an empty journal, which is
// a legal no-op correction.
func BuildCorrectionJournal(oldSnap, newSnap SaldoAwalSnapshot) []JournalLine {
	var lines []JournalLine
	for _, code := range trackedCodes {
		delta := newSnap.AggregateFor(code) - oldSnap.AggregateFor(code)
		if math.Abs(delta) < Tolerance {
			continue
		}
		accType, _ := TypeOfCode(code)
		amount := math.Abs(delta)
		switch {
		case accType == AccountTypeAsset && delta > 0:
			lines = append(lines,
				JournalLine{Account: code, Debit: amount},
				JournalLine{Account: CodeModalKoperasi, Credit: amount},
			)
		case accType == AccountTypeAsset && delta < 0:
			lines = append(lines,
				JournalLine{Account: code, Credit: amount},
				JournalLine{Account: CodeModalKoperasi, Debit: amount},
			)
		case delta > 0:
			lines = append(lines,
				JournalLine{Account: CodeModalKoperasi, Debit: amount},
				JournalLine{Account: code, Credit: amount},
			)
		default:
			lines = append(lines,
				JournalLine{Account: CodeModalKoperasi, Credit: amount},
				JournalLine{Account: code, Debit: amount},
			)
		}
	}
	return lines
}
