package billing

import (
	"fmt"
	"time"
)

// Document families for day-scoped numbering. Each family counts
// independently and restarts at 001 every calendar day.
const (
	FamilyInvoice = "INVOICE"
	FamilyReceipt = "RECEIPT"
)

var familyPrefixes = map[string]string{
	FamilyInvoice: "INV",
	FamilyReceipt: "FEES",
}

// DayKey renders the day component of a document number.
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}

// FormatDocumentNumber renders <PREFIX>-<YYYYMMDD>-<NNN>.
func FormatDocumentNumber(family string, day time.Time, seq int64) string {
	prefix, ok := familyPrefixes[family]
	if !ok {
		prefix = family
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, DayKey(day), seq)
}

// FormatAthleteNumber renders ATH-<NNN> from the athlete counter.
func FormatAthleteNumber(seq int64) string {
	return fmt.Sprintf("ATH-%03d", seq)
}
