package assign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// free reports every table available
func free(context.Context, []string) (bool, error) { return false, nil }

// busyTables reports a table set busy if it touches any of the given ids
func busyTables(taken ...string) OverlapFunc {
	set := map[string]bool{}
	for _, id := range taken {
		set[id] = true
	}
	return func(_ context.Context, ids []string) (bool, error) {
		for _, id := range ids {
			if set[id] {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestSingleTableBestFit(t *testing.T) {
	tables := []Table{
		{ID: "t-big", MinSize: 4, MaxSize: 6},
		{ID: "t-small", MinSize: 2, MaxSize: 4},
	}

	ids, err := Tables(context.Background(), tables, 3, free)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-small"}, ids, "tightest fit wins")

	ids, err = Tables(context.Background(), tables, 3, busyTables("t-small"))
	require.NoError(t, err)
	assert.Equal(t, []string{"t-big"}, ids, "next best when the tight fit is taken")
}

func TestBestFitTieBreaksByID(t *testing.T) {
	tables := []Table{
		{ID: "t2", MinSize: 2, MaxSize: 4},
		{ID: "t1", MinSize: 2, MaxSize: 4},
	}
	ids, err := Tables(context.Background(), tables, 2, free)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids)
}

func TestCombinationFallback(t *testing.T) {
	// neither table seats 8 alone, together they do
	tables := []Table{
		{ID: "t1", MinSize: 2, MaxSize: 4},
		{ID: "t2", MinSize: 2, MaxSize: 4},
	}
	ids, err := Tables(context.Background(), tables, 8, free)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids)
}

func TestCombinationSkipsBusyTables(t *testing.T) {
	tables := []Table{
		{ID: "t1", MinSize: 2, MaxSize: 4},
		{ID: "t2", MinSize: 2, MaxSize: 4},
		{ID: "t3", MinSize: 2, MaxSize: 4},
	}
	ids, err := Tables(context.Background(), tables, 8, busyTables("t1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3"}, ids)
}

func TestCombinationRespectsMinSum(t *testing.T) {
	// sum(min) = 10 > 8, the pair must be rejected
	tables := []Table{
		{ID: "t1", MinSize: 5, MaxSize: 10},
		{ID: "t2", MinSize: 5, MaxSize: 10},
	}
	ids, err := Tables(context.Background(), tables, 8, free)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestNoFeasibleAssignment(t *testing.T) {
	tables := []Table{
		{ID: "t1", MinSize: 2, MaxSize: 4},
		{ID: "t2", MinSize: 2, MaxSize: 4},
	}

	// sum(maxSize) = 8 < 12 across every subset
	ids, err := Tables(context.Background(), tables, 12, free)
	require.NoError(t, err)
	assert.Nil(t, ids)

	// all tables taken
	ids, err = Tables(context.Background(), tables, 4, busyTables("t1", "t2"))
	require.NoError(t, err)
	assert.Nil(t, ids)

	// empty sector
	ids, err = Tables(context.Background(), nil, 2, free)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestCombinationSizeBound(t *testing.T) {
	// party of 14 needs 7 two-tops, above the subset cap
	var tables []Table
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		tables = append(tables, Table{ID: id, MinSize: 1, MaxSize: 2})
	}
	ids, err := Tables(context.Background(), tables, 14, free)
	require.NoError(t, err)
	assert.Nil(t, ids)

	// a party of 10 fits in exactly five
	ids, err = Tables(context.Background(), tables, 10, free)
	require.NoError(t, err)
	require.Len(t, ids, 5)
}

func TestSmallTableContributesToCombination(t *testing.T) {
	// t-tiny cannot seat 6 alone but can contribute
	tables := []Table{
		{ID: "t-four", MinSize: 2, MaxSize: 4},
		{ID: "t-tiny", MinSize: 1, MaxSize: 2},
	}
	ids, err := Tables(context.Background(), tables, 6, free)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-four", "t-tiny"}, ids)
}

func TestOverlapErrorPropagates(t *testing.T) {
	boom := errors.New("store down")
	fails := func(context.Context, []string) (bool, error) { return false, boom }

	_, err := Tables(context.Background(), []Table{{ID: "t1", MinSize: 2, MaxSize: 4}}, 2, fails)
	assert.ErrorIs(t, err, boom)
}

func TestDeterminism(t *testing.T) {
	tables := []Table{
		{ID: "t3", MinSize: 2, MaxSize: 6},
		{ID: "t1", MinSize: 2, MaxSize: 4},
		{ID: "t2", MinSize: 2, MaxSize: 4},
	}
	first, err := Tables(context.Background(), tables, 8, free)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Tables(context.Background(), tables, 8, free)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
