package domain

import "time"

// Validate checks both bounds are present YYYY-MM-DD dates. It runs
// before any network call; range ordering (start <= end) stays the
// remote service's responsibility.
func (r DateRange) Validate() error {
	if r.Start == "" || r.End == "" {
		return &ErrValidation{Message: "start and end date required"}
	}
	for _, d := range []string{r.Start, r.End} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return &ErrValidation{Message: "start and end date must be YYYY-MM-DD"}
		}
	}
	return nil
}
