package ports

import (
	"fmt"

	"github.com/inkhouse/backend/internal/platform/apperror"
)

// Pagination bounds shared by every provider.
const (
	MinLimit     = 1
	MaxLimit     = 50
	DefaultLimit = 10
)

// NormalizePagination validates and clamps caller-supplied pagination input.
// Zero values fall back to defaults; negative values are rejected before any
// I/O happens; limits above MaxLimit are clamped down.
func NormalizePagination(page, limit int) (int, int, error) {
	if page < 0 || limit < 0 {
		return 0, 0, apperror.InvalidArgument(
			apperror.BusinessCodeBadPagination,
			fmt.Sprintf("pagination input out of range: page=%d limit=%d", page, limit),
		)
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit, nil
}

// Paginate applies the shared over-fetch rule: callers fetch limit+1 rows and
// hand them here; if more than limit came back the page is sliced to limit and
// HasNext is true. Factored out so the three providers cannot drift.
func Paginate[T any](rows []T, limit int) ([]T, bool) {
	if len(rows) > limit {
		return rows[:limit:limit], true
	}
	return rows, false
}
