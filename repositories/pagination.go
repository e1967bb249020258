package repositories

// listOffset converts a 1-based page number into a row offset. Page numbers
// below 1 address the first page, so the default listing starts at row zero.
func listOffset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}
