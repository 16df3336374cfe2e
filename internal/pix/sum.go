package pix

import "github.com/boddenberg/pix-consulta-go/internal/domain"

// Sum returns the total amount over all records, regardless of any
// pagination applied elsewhere. A NaN amount propagates into the total
// so malformed upstream data is surfaced instead of summed as zero.
func Sum(records []domain.CanonicalRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Amount
	}
	return total
}
