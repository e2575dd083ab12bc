package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// formatTime formats a timestamp for storage. Nanoseconds are kept so a
// stored profile reads back equal.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a stored timestamp.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTime(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if
// values are > 0. SQLite needs a LIMIT before any OFFSET, so -1 (no limit)
// is used when only an offset is given.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// boolInt converts a bool to SQLite's integer form.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
