package utils

import "math"

// CalculatePagination turns page/limit into an offset and a row cap. A nil
// take means no cap: the caller is expected to return every matching row.
// An offset that would overflow saturates at math.MaxInt.
func CalculatePagination(page, limit *int) (skip int, take *int) {
	if limit == nil || *limit <= 0 {
		return 0, nil
	}
	p := 1
	if page != nil && *page > 0 {
		p = *page
	}
	l := *limit
	if p-1 > math.MaxInt/l {
		// past any reachable row, the page is simply empty
		return math.MaxInt, &l
	}
	return (p - 1) * l, &l
}

// NormalizePaginationResponse reports the page and limit that were actually
// applied. Without a usable limit everything was returned on page 1.
func NormalizePaginationResponse(page, limit *int, total int64) (int, int) {
	if limit == nil || *limit <= 0 {
		return 1, int(total)
	}
	p := 1
	if page != nil && *page > 0 {
		p = *page
	}
	return p, *limit
}
