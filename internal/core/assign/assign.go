// Package assign places a party onto tables in a sector: Best-Fit over a
// single table first, then a bounded combination search across tables.
package assign

import (
	"context"
	"sort"
)

// MaxCombination caps the combination search at subsets of this size,
// bounding the enumeration at C(n, 5) for realistic sector sizes.
const MaxCombination = 5

// Table is the capacity view of a physical table
type Table struct {
	ID      string
	MinSize int
	MaxSize int
}

// Eligible reports whether the table can seat the party on its own
func (t Table) Eligible(partySize int) bool {
	return t.MinSize <= partySize && partySize <= t.MaxSize
}

// OverlapFunc answers whether any active reservation overlaps the candidate
// interval on any of the given tables. The interval is fixed by the caller;
// implementations range from a store query to an in-memory scan.
type OverlapFunc func(ctx context.Context, tableIDs []string) (bool, error)

// Tables selects the tables for a party. The single-table tier prefers the
// tightest fit (smallest MaxSize - partySize, ties by id). The fallback tier
// enumerates k-subsets for k = 2..MaxCombination over every table that could
// contribute (MinSize <= partySize) and accepts the first subset whose
// combined bounds admit the party and whose tables are all free. A nil
// result with a nil error means no feasible assignment exists.
func Tables(ctx context.Context, tables []Table, partySize int, busy OverlapFunc) ([]string, error) {
	// tier 1: Best-Fit single table
	var singles []Table
	for _, t := range tables {
		if t.Eligible(partySize) {
			singles = append(singles, t)
		}
	}
	sort.Slice(singles, func(i, j int) bool {
		wi, wj := singles[i].MaxSize-partySize, singles[j].MaxSize-partySize
		if wi != wj {
			return wi < wj
		}
		return singles[i].ID < singles[j].ID
	})
	for _, t := range singles {
		taken, err := busy(ctx, []string{t.ID})
		if err != nil {
			return nil, err
		}
		if !taken {
			return []string{t.ID}, nil
		}
	}

	// tier 2: combinations over every table that can contribute
	var candidates []Table
	for _, t := range tables {
		if t.MinSize <= partySize {
			candidates = append(candidates, t)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].MaxSize != candidates[j].MaxSize {
			return candidates[i].MaxSize > candidates[j].MaxSize
		}
		return candidates[i].ID < candidates[j].ID
	})

	for k := 2; k <= MaxCombination && k <= len(candidates); k++ {
		ids, err := combinations(ctx, candidates, k, partySize, busy)
		if err != nil {
			return nil, err
		}
		if ids != nil {
			return ids, nil
		}
	}
	return nil, nil
}

// combinations walks the k-subsets of candidates in lexicographic order and
// returns the first feasible one, sorted by id for determinism
func combinations(ctx context.Context, candidates []Table, k, partySize int, busy OverlapFunc) ([]string, error) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		subset := make([]Table, k)
		for i, j := range idx {
			subset[i] = candidates[j]
		}
		ids, err := feasible(ctx, subset, partySize, busy)
		if err != nil {
			return nil, err
		}
		if ids != nil {
			return ids, nil
		}
		if !nextSubset(idx, len(candidates)) {
			return nil, nil
		}
	}
}

// feasible checks capacity bounds first, only then the overlap query
func feasible(ctx context.Context, subset []Table, partySize int, busy OverlapFunc) ([]string, error) {
	sumMin, sumMax := 0, 0
	ids := make([]string, len(subset))
	for i, t := range subset {
		sumMin += t.MinSize
		sumMax += t.MaxSize
		ids[i] = t.ID
	}
	if sumMin > partySize || partySize > sumMax {
		return nil, nil
	}
	taken, err := busy(ctx, ids)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, nil
	}
	sort.Strings(ids)
	return ids, nil
}

// nextSubset advances idx to the next k-subset of [0, n) in lexicographic
// order, returning false when exhausted
func nextSubset(idx []int, n int) bool {
	k := len(idx)
	for i := k - 1; i >= 0; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}
