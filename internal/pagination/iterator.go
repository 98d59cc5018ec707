package pagination

// FetchFunc retrieves one page given a cursor ("" requests the first page).
type FetchFunc[T any] func(cursor string) (Page[T], error)

// Iterator lazily walks every page fetch produces until the server's
// next_cursor hits the end sentinel, yielding flattened items one at a time.
type Iterator[T any] struct {
	fetch  FetchFunc[T]
	cursor string
	buf    []T
	idx    int
	done   bool
}

// New builds an Iterator driven by fetch.
func New[T any](fetch FetchFunc[T]) *Iterator[T] {
	return &Iterator[T]{fetch: fetch}
}

// Next returns the next item. ok is false once pagination is exhausted; err
// is non-nil only on a genuine fetch failure, never on reaching the end.
func (it *Iterator[T]) Next() (item T, ok bool, err error) {
	for it.idx >= len(it.buf) {
		if it.done {
			return item, false, nil
		}

		page, err := it.fetch(it.cursor)
		if err != nil {
			return item, false, err
		}

		it.buf = page.Data
		it.idx = 0
		if IsEnd(page.NextCursor) {
			it.done = true
		} else {
			it.cursor = page.NextCursor
		}
		if len(it.buf) == 0 {
			// An empty, non-terminal page would otherwise spin forever;
			// treat it as the end rather than trusting a misbehaving server.
			it.done = true
			return item, false, nil
		}
	}

	item = it.buf[it.idx]
	it.idx++
	return item, true, nil
}

// Collect drains the iterator fully, returning every item in order.
func (it *Iterator[T]) Collect() ([]T, error) {
	var out []T
	for {
		item, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}
