package sync

import (
	"context"
	"math/big"

	"github.com/obralink/client/internal/domain/shared"
)

// blockRange is an inclusive block interval.
type blockRange struct {
	from uint64
	to   uint64
}

// partition splits [from, to] into consecutive inclusive ranges of at most
// chunk blocks. An inverted interval yields nothing.
func partition(from, to, chunk uint64) []blockRange {
	if to < from || chunk == 0 {
		return nil
	}
	ranges := make([]blockRange, 0, (to-from)/chunk+1)
	for start := from; start <= to; start += chunk {
		end := start + chunk - 1
		if end > to {
			end = to
		}
		ranges = append(ranges, blockRange{from: start, to: end})
	}
	return ranges
}

// scanIDs walks the ranges sequentially, collecting ids from each. Any
// range failure is terminal: the scan stops immediately and reports the
// failed interval, returning nothing rather than a silently truncated
// result.
func scanIDs(ctx context.Context, ranges []blockRange, fetch func(ctx context.Context, from, to uint64) ([]*big.Int, error)) ([]*big.Int, error) {
	var ids []*big.Int
	for _, r := range ranges {
		batch, err := fetch(ctx, r.from, r.to)
		if err != nil {
			return nil, shared.NewRangeScanError(r.from, r.to, err)
		}
		ids = append(ids, batch...)
	}
	return ids, nil
}

// dedupIDs drops duplicate ids, keeping first-seen order.
func dedupIDs(ids []*big.Int) []*big.Int {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == nil {
			continue
		}
		key := id.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}
	return out
}
