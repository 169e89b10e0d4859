package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset converts a normalized page and limit into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
