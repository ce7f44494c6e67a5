package repository

import (
	"sort"
	"strings"
)

// buildSet assembles a SQL SET clause from the non-nil entries of cols.
// Columns are sorted so the generated statement is stable. An empty clause
// means the caller supplied no updatable field.
func buildSet(cols map[string]any) (string, []any) {
	keys := make([]string, 0, len(cols))
	for k, v := range cols {
		if v != nil {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", nil
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" = ?")
		args = append(args, cols[k])
	}
	return strings.Join(parts, ", "), args
}

// ptrVal unwraps an optional field: nil pointers stay nil (column skipped),
// everything else is dereferenced for use as a query argument.
func ptrVal[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
