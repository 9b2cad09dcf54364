package pagination

// CalculateOffset calculates the database OFFSET value based on page number and limit.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Examples:
//   - Page 1, Limit 9 -> Offset 0
//   - Page 3, Limit 9 -> Offset 18
func CalculateOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total / limit).
// An empty result has zero pages; the page grids hide their pager in that case.
//
// Examples:
//   - Total 0, Limit 9 -> 0 pages
//   - Total 9, Limit 9 -> 1 page
//   - Total 10, Limit 9 -> 2 pages
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
