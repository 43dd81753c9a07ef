package resource

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("operation not supported by this resource")

// Backend is the set of remote operations of one resource. P is the payload
// accepted by Create and Update. A nil function is an unsupported operation.
type Backend[T Entity, P any] struct {
	FetchOne func(ctx context.Context, id string) (T, error)
	Create   func(ctx context.Context, payload P) (T, error)
	Update   func(ctx context.Context, id string, payload P) (T, error)
	Remove   func(ctx context.Context, id string) error
}

// Detail runs single-resource operations. Each returns the server's
// canonical object or the server error unchanged. When a list is attached,
// successful mutations are applied to it: filter-out on delete, replace on
// update, append on create. A failed mutation never touches the list.
type Detail[T Entity, P any] struct {
	backend Backend[T, P]
	list    *List[T]
}

func NewDetail[T Entity, P any](backend Backend[T, P]) *Detail[T, P] {
	return &Detail[T, P]{backend: backend}
}

// Sync returns a copy of the controller that keeps list up to date.
func (d *Detail[T, P]) Sync(list *List[T]) *Detail[T, P] {
	return &Detail[T, P]{backend: d.backend, list: list}
}

func (d *Detail[T, P]) FetchOne(ctx context.Context, id string) (T, error) {
	var zero T
	if d.backend.FetchOne == nil {
		return zero, fmt.Errorf("fetch one: %w", ErrUnsupported)
	}

	return d.backend.FetchOne(ctx, id)
}

func (d *Detail[T, P]) Create(ctx context.Context, payload P) (T, error) {
	var zero T
	if d.backend.Create == nil {
		return zero, fmt.Errorf("create: %w", ErrUnsupported)
	}

	created, err := d.backend.Create(ctx, payload)
	if err != nil {
		return zero, err
	}
	if d.list != nil {
		d.list.Append(created)
	}

	return created, nil
}

func (d *Detail[T, P]) Update(ctx context.Context, id string, payload P) (T, error) {
	var zero T
	if d.backend.Update == nil {
		return zero, fmt.Errorf("update: %w", ErrUnsupported)
	}

	updated, err := d.backend.Update(ctx, id, payload)
	if err != nil {
		return zero, err
	}
	if d.list != nil {
		d.list.Replace(updated)
	}

	return updated, nil
}

func (d *Detail[T, P]) Remove(ctx context.Context, id string) error {
	if d.backend.Remove == nil {
		return fmt.Errorf("remove: %w", ErrUnsupported)
	}

	if err := d.backend.Remove(ctx, id); err != nil {
		return err
	}
	if d.list != nil {
		d.list.Remove(id)
	}

	return nil
}
