package database

import "fmt"

// orderBy builds an ORDER BY clause from a caller-supplied sort key, checked
// against the entity's column whitelist. Unknown keys fall back to insertion
// order (id). Never interpolate the raw key: it comes from the query string.
func orderBy(sortBy string, desc bool, allowed map[string]bool) string {
	column := "id"
	if sortBy != "" && allowed[sortBy] {
		column = sortBy
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// clampPage normalises offset/limit; out-of-range limits fall back to the
// default page size.
func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return offset, limit
}
