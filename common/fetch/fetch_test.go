package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSource simulates a store with a per-request row ceiling
func pagedSource(rows []int) PageFunc[int] {
	return func(ctx context.Context, limit, offset int) ([]int, error) {
		if offset >= len(rows) {
			return nil, nil
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		return rows[offset:end], nil
	}
}

func TestAll_DrainsMultiplePages(t *testing.T) {
	rows := make([]int, 25)
	for i := range rows {
		rows[i] = i
	}

	calls := 0
	src := pagedSource(rows)
	counted := func(ctx context.Context, limit, offset int) ([]int, error) {
		calls++
		return src(ctx, limit, offset)
	}

	got, err := All(context.Background(), 10, counted)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	// 10 + 10 + 5: the short third page terminates the loop
	assert.Equal(t, 3, calls)
}

func TestAll_SinglePartialPage(t *testing.T) {
	got, err := All(context.Background(), 10, pagedSource([]int{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestAll_ExactPageBoundary(t *testing.T) {
	rows := make([]int, 20)
	for i := range rows {
		rows[i] = i
	}

	got, err := All(context.Background(), 10, pagedSource(rows))
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestAll_EmptySource(t *testing.T) {
	got, err := All(context.Background(), 10, pagedSource(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAll_PageErrorAbortsFetch(t *testing.T) {
	boom := errors.New("connection reset")
	page := func(ctx context.Context, limit, offset int) ([]int, error) {
		if offset >= 10 {
			return nil, boom
		}
		out := make([]int, limit)
		return out, nil
	}

	got, err := All(context.Background(), 10, page)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// No partial results on failure
	assert.Nil(t, got)
}

func TestAll_RejectsInvalidPageSize(t *testing.T) {
	_, err := All(context.Background(), 0, pagedSource([]int{1}))
	assert.Error(t, err)
}
