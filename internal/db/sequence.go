package db

import (
	"context"
)

// NextRequestSeq atomically advances the request counter and returns the
// new value. sqlite serializes writers, so concurrent callers observe
// strictly increasing values with no duplicates.
func NextRequestSeq(ctx context.Context, q Querier) (int64, error) {
	var value int64
	err := q.QueryRowContext(ctx,
		"UPDATE request_seq SET value = value + 1 WHERE id = 1 RETURNING value",
	).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}
