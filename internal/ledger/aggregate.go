package ledger

// ProjectSnapshot projects a saldo awal snapshot onto a chart of accounts.
// The input slice is never mutated; the result is a fresh slice with each
// fixed account's balance replaced by the snapshot aggregate. Accounts whose
// code is not part of the fixed chart keep their balance untouched, so a
// partial or extended chart passes through unharmed.
func ProjectSnapshot(accounts []Account, snapshot SaldoAwalSnapshot) []Account {
	out := make([]Account, len(accounts))
	copy(out, accounts)
	for i := range out {
		if _, ok := TypeOfCode(out[i].Code); !ok {
			continue
		}
		out[i].Balance = snapshot.AggregateFor(out[i].Code)
	}
	return out
}
