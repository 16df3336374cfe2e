package pix

import (
	"sort"
	"time"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
)

// Timestamp layouts the listing endpoint actually emits.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses a record timestamp. Unparseable inputs return
// the zero time, which Order treats as the earliest possible instant.
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Order returns the records sorted by timestamp descending (newest
// first). The sort is stable: records with identical timestamps keep
// their relative input order. Records whose timestamp does not parse
// sink to the end. The input slice is not modified.
func Order(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	type keyed struct {
		rec domain.CanonicalRecord
		at  time.Time
	}

	out := make([]keyed, len(records))
	for i, r := range records {
		out[i] = keyed{rec: r, at: ParseTimestamp(r.Timestamp)}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].at.After(out[j].at)
	})

	ordered := make([]domain.CanonicalRecord, len(out))
	for i, k := range out {
		ordered[i] = k.rec
	}
	return ordered
}
