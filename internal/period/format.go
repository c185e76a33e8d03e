package period

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian digit grouping for
// human-facing memos and rejection messages, e.g. "Rp 1.500.000".
func FormatRupiah(amount float64) string {
	return rupiahPrinter.Sprintf("Rp %.0f", amount)
}
