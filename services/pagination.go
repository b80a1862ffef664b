package services

import "fmt"

const MaxPageSize = 100

// paginationWindow turns 1-indexed (page, pageSize) into the (skip, limit)
// pair the driver expects. Checked before any database access.
func paginationWindow(page, pageSize int) (skip, limit int64, err error) {
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPagination, page)
	}
	if pageSize < 1 {
		return 0, 0, fmt.Errorf("%w: page_size must be >= 1, got %d", ErrInvalidPagination, pageSize)
	}
	if pageSize > MaxPageSize {
		return 0, 0, fmt.Errorf("%w: page_size exceeds max limit of %d", ErrInvalidPagination, MaxPageSize)
	}
	return int64(page-1) * int64(pageSize), int64(pageSize), nil
}

// sliceWindow clamps the window of one page to the bounds of an in-memory
// result set of length total.
func sliceWindow(total, page, pageSize int) (start, end int) {
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
