package ledger

// trackedCodes fixes the diff and generation order so journals come out
// deterministic: assets first, then liabilities, then equity.
var trackedCodes = []string{
	CodeKas,
	CodeBank,
	CodePiutangAnggota,
	CodePersediaan,
	CodeHutangSupplier,
	CodeSimpananPokok,
	CodeSimpananWajib,
	CodeSimpananSukarela,
	CodeModalKoperasi,
}

// BuildOpeningJournal builds the balanced initial journal for a period from
// its saldo awal snapshot. Every asset sub-ledger total is recorded as
// `debit asset / credit modal koperasi`; every liability total as
// `credit liability / debit modal koperasi`. Zero totals emit no lines, so
// an empty snapshot yields an empty journal. The output always satisfies
// ValidateBalance regardless of snapshot contents.
func BuildOpeningJournal(snapshot SaldoAwalSnapshot) []JournalLine {
	var lines []JournalLine
	for _, code := range trackedCodes {
		if code == CodeModalKoperasi {
			// Modal is the balancing counter-account, not an independent
			// contribution; it only appears paired with the lines above.
			continue
		}
		total := snapshot.AggregateFor(code)
		if IsZeroAmount(total) {
			continue
		}
		accType, _ := TypeOfCode(code)
		switch accType {
		case AccountTypeAsset:
			lines = append(lines,
				JournalLine{Account: code, Debit: total},
				JournalLine{Account: CodeModalKoperasi, Credit: total},
			)
		case AccountTypeLiability:
			lines = append(lines,
				JournalLine{Account: code, Credit: total},
				JournalLine{Account: CodeModalKoperasi, Debit: total},
			)
		}
	}
	return lines
}
