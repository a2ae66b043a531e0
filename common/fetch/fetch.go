package fetch

import (
	"context"
	"fmt"
)

// PageFunc loads one page of rows: at most limit rows starting at offset.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// All drains a paginated source completely, regardless of any per-request
// row ceiling the backing store imposes. It requests fixed-size pages with
// an advancing offset and stops when a page comes back short or empty.
//
// Any page failure aborts the whole fetch; partial results are never
// returned.
func All[T any](ctx context.Context, pageSize int, page PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size: %d", pageSize)
	}

	var all []T
	offset := 0

	for {
		rows, err := page(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}

		all = append(all, rows...)

		// A short or empty page means the table is drained
		if len(rows) < pageSize {
			return all, nil
		}

		offset += pageSize
	}
}
