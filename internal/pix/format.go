package pix

import (
	"fmt"
	"math"
	"strings"
)

// Display helpers mirroring the frontend's formatting. The core never
// depends on these; they exist for callers that render records.

// FormatTimestamp renders a record timestamp as dd/mm/yyyy hh:mm.
// Unparseable timestamps are returned as-is.
func FormatTimestamp(s string) string {
	t := ParseTimestamp(s)
	if t.IsZero() {
		return s
	}
	return t.Format("02/01/2006 15:04")
}

// FormatBRL renders an amount as pt-BR currency (R$ 1.234,56).
// NaN renders as "R$ --" so tainted totals are visibly wrong.
func FormatBRL(v float64) string {
	if math.IsNaN(v) {
		return "R$ --"
	}

	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}
