package listpage

// SerialNumber is the global ordinal of a row for display numbering across
// pages: row 0 on page 3 with limit 10 is number 21. Pure; valid for any
// 1-based page and positive limit.
func SerialNumber(page, limit, rowIndex int) int {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return (page-1)*limit + rowIndex + 1
}
