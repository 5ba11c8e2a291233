package feed

import "sort"

// Merge combines item batches into one reverse-chronological sequence,
// deduplicated by unique id with the first occurrence winning.
//
// The sort is stable: exact-timestamp ties keep the concatenation order of
// the input batches, and deduplication preserves the sorted order. Given
// identical inputs the output is identical; nothing here depends on map
// iteration order.
func Merge(batches ...[]Item) []Item {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	combined := make([]Item, 0, total)
	for _, b := range batches {
		combined = append(combined, b...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})

	seen := make(map[string]struct{}, len(combined))
	out := make([]Item, 0, len(combined))
	for _, item := range combined {
		key := item.UniqueID()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}

// Truncate caps items at limit and reports whether more remained beyond it.
// A non-positive limit leaves items untouched.
func Truncate(items []Item, limit int) ([]Item, bool) {
	if limit > 0 && len(items) > limit {
		return items[:limit:limit], true
	}
	return items, false
}

// MergePage builds a single feed page out of a thread batch and a repost
// batch: merge, then truncate to the page size. hasMore is true iff the
// deduplicated pre-truncation result exceeded the limit.
func MergePage(threads, reposts []Item, limit int) ([]Item, bool) {
	return Truncate(Merge(threads, reposts), limit)
}
