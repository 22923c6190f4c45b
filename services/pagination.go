package services

import "math"

// Page defaults applied to list queries
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizePage replaces non-positive page and limit values with the defaults
// and caps limit at MaxLimit. It returns the page, limit and row offset. Pages
// whose offset does not fit an int get math.MaxInt, which reads past the end.
func NormalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		return page, limit, math.MaxInt
	}
	return page, limit, (page - 1) * limit
}
