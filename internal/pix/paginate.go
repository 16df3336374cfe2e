package pix

import "github.com/boddenberg/pix-consulta-go/internal/domain"

// DefaultPageSize matches the display window the frontend always used.
const DefaultPageSize = 10

// TotalPages reports how many pages of pageSize the records span.
// An empty record set has zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate slices an ordered record set into the requested page. The
// slice is bounds-safe: a page beyond the available range yields an
// empty records slice, never an error. Clamping the page number into
// [1, TotalPages] is the caller's job.
func Paginate(records []domain.CanonicalRecord, pageNumber, pageSize int) domain.Page {
	page := domain.Page{
		Records:    []domain.CanonicalRecord{},
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(records), pageSize),
	}
	if pageNumber < 1 || pageSize < 1 {
		return page
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(records) {
		return page
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	page.Records = records[start:end]
	return page
}
