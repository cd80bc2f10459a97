package repository

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

func normalizeListFilter(in ListFilter) ListFilter {
	if in.Page < 1 {
		in.Page = defaultPage
	}
	if in.Limit < 1 {
		in.Limit = defaultLimit
	}
	if in.Limit > maxLimit {
		in.Limit = maxLimit
	}
	return in
}

// TotalPages computes the page count for a listing.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
