package resource

import "context"

// Window pages a collection the server only returns whole. The full
// collection is fetched on every call and sliced locally.
func Window[T Entity](all func(ctx context.Context) ([]T, error)) Fetcher[T] {
	return func(ctx context.Context, page, size int) (Page[T], error) {
		items, err := all(ctx)
		if err != nil {
			return Page[T]{}, err
		}

		start := (page - 1) * size
		if start < 0 || start >= len(items) {
			return Page[T]{Items: []T{}, Total: len(items)}, nil
		}
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		return Page[T]{
			Items: append([]T{}, items[start:end]...),
			Total: len(items),
		}, nil
	}
}
