package db

import (
	"context"
	"strings"
)

// AnyHeaderDisallowed reports whether any of the given header names,
// already case-folded by the caller, is on the denylist.
func AnyHeaderDisallowed(ctx context.Context, q Querier, names []string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}

	placeholders := strings.Repeat("?, ", len(names)-1) + "?"
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}

	var exists int
	err := q.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM disallowed_headers WHERE header_name IN ("+placeholders+"))",
		args...,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}
