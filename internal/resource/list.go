// Package resource holds the generic controllers behind every admin list
// screen: a paginated remote collection and a detail/mutation controller
// that keeps a list copy in sync.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrInvalidPageSize = errors.New("invalid page size")
)

const DefaultPageSize = 10

// Entity is anything with a server-side id.
type Entity interface {
	EntityID() string
}

// Page is what a fetcher returns: at most one page of items and the total
// size of the collection.
type Page[T Entity] struct {
	Items []T
	Total int
}

type Fetcher[T Entity] func(ctx context.Context, page, size int) (Page[T], error)

type State[T Entity] struct {
	Items     []T    `json:"items"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
	Total     int    `json:"total"`
	PageCount int    `json:"pageCount"`
	Loading   bool   `json:"loading"`
	Error     string `json:"error,omitempty"`
}

type ListOption func(*listOptions)

type listOptions struct {
	pageSize int
	message  func(error) string
}

func WithPageSize(size int) ListOption {
	return func(o *listOptions) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithErrorMessage sets how a fetch error becomes the user-visible message.
func WithErrorMessage(fn func(error) string) ListOption {
	return func(o *listOptions) {
		o.message = fn
	}
}

// List is a paginated remote collection. Every page or page-size change
// issues a new fetch; nothing is cached across pages. A failed fetch keeps
// the previous items, records the error and is not retried.
type List[T Entity] struct {
	fetch   Fetcher[T]
	message func(error) string

	fetchMu sync.Mutex
	mu      sync.RWMutex
	state   State[T]
	// stale is set when the visible items no longer belong to state.Page.
	stale bool
}

func NewList[T Entity](fetch Fetcher[T], opts ...ListOption) *List[T] {
	o := listOptions{
		pageSize: DefaultPageSize,
		message:  func(err error) string { return err.Error() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &List[T]{
		fetch:   fetch,
		message: o.message,
		state: State[T]{
			Items:     []T{},
			Page:      1,
			PageSize:  o.pageSize,
			PageCount: 1,
		},
	}
}

// State returns a copy of the current state.
func (l *List[T]) State() State[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := l.state
	s.Items = append([]T(nil), l.state.Items...)

	return s
}

// Load fetches the first page.
func (l *List[T]) Load(ctx context.Context) error {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	return l.load(ctx, 1, l.pageSize())
}

// Reload fetches the current page again.
func (l *List[T]) Reload(ctx context.Context) error {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	l.mu.RLock()
	page, size := l.state.Page, l.state.PageSize
	l.mu.RUnlock()

	return l.load(ctx, page, size)
}

// SetPage moves to page p. Outside [1, PageCount] it does nothing and
// returns ErrPageOutOfRange.
func (l *List[T]) SetPage(ctx context.Context, p int) error {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	l.mu.RLock()
	current, count, size, stale := l.state.Page, l.state.PageCount, l.state.PageSize, l.stale
	l.mu.RUnlock()

	if p < 1 || p > count {
		return fmt.Errorf("page %d of %d: %w", p, count, ErrPageOutOfRange)
	}
	if p == current && !stale {
		return nil
	}

	return l.load(ctx, p, size)
}

// SetPageSize changes the page size and goes back to the first page.
func (l *List[T]) SetPageSize(ctx context.Context, size int) error {
	if size < 1 {
		return fmt.Errorf("page size %d: %w", size, ErrInvalidPageSize)
	}

	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	if size == l.pageSize() {
		return nil
	}

	return l.load(ctx, 1, size)
}

func (l *List[T]) pageSize() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.PageSize
}

func (l *List[T]) load(ctx context.Context, page, size int) error {
	l.mu.Lock()
	l.state.Loading = true
	l.state.Error = ""
	l.mu.Unlock()

	result, err := l.fetch(ctx, page, size)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Loading = false
	if err != nil {
		l.state.Error = l.message(err)
		return err
	}

	items := result.Items
	if len(items) > size {
		items = items[:size]
	}

	l.state.Items = append([]T{}, items...)
	l.stale = false
	l.state.Page = page
	l.state.PageSize = size
	l.state.Total = result.Total
	l.state.PageCount = pageCount(result.Total, size)

	return nil
}

func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}

	return (total + size - 1) / size
}

// Remove drops the item with id from the visible items. It reports whether
// the item was there. When the last page disappears, Page moves back to the
// new last page and the next SetPage fetches it.
func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.state.Items[:0:0]
	for _, item := range l.state.Items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(l.state.Items) {
		return false
	}

	l.state.Items = kept
	if l.state.Total > 0 {
		l.state.Total--
	}
	l.state.PageCount = pageCount(l.state.Total, l.state.PageSize)
	if l.state.Page > l.state.PageCount {
		l.state.Page = l.state.PageCount
		l.stale = true
	}

	return true
}

// Replace swaps the item with the same id. It reports whether one was found.
func (l *List[T]) Replace(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := item.EntityID()
	for i := range l.state.Items {
		if l.state.Items[i].EntityID() == id {
			l.state.Items[i] = item
			return true
		}
	}

	return false
}

// Append adds a newly created item at the end of the visible items.
func (l *List[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Items = append(l.state.Items, item)
	l.state.Total++
	l.state.PageCount = pageCount(l.state.Total, l.state.PageSize)
}
