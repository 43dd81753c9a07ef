package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedList(t *testing.T, n int) *List[item] {
	t.Helper()

	srv := &fakeServer{all: items(n)}
	l := NewList(srv.fetch)
	require.NoError(t, l.Load(context.Background()))

	return l
}

func TestDetail_RemoveSyncsList(t *testing.T) {
	l := loadedList(t, 5)
	var removed []string
	d := NewDetail(Backend[item, string]{
		Remove: func(_ context.Context, id string) error {
			removed = append(removed, id)
			return nil
		},
	}).Sync(l)

	require.NoError(t, d.Remove(context.Background(), "id-02"))

	assert.Equal(t, []string{"id-02"}, removed)
	for _, it := range l.State().Items {
		assert.NotEqual(t, "id-02", it.ID)
	}
	assert.Len(t, l.State().Items, 4)
}

func TestDetail_FailedRemoveLeavesListUntouched(t *testing.T) {
	l := loadedList(t, 5)
	before := l.State()
	upstream := errors.New("forbidden")
	d := NewDetail(Backend[item, string]{
		Remove: func(context.Context, string) error { return upstream },
	}).Sync(l)

	err := d.Remove(context.Background(), "id-02")

	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, before, l.State())
}

func TestDetail_UpdateReplacesWithServerObject(t *testing.T) {
	l := loadedList(t, 3)
	d := NewDetail(Backend[item, string]{
		Update: func(_ context.Context, id, name string) (item, error) {
			return item{ID: id, Name: name + " (server)"}, nil
		},
	}).Sync(l)

	got, err := d.Update(context.Background(), "id-01", "x")
	require.NoError(t, err)

	assert.Equal(t, "x (server)", got.Name)
	assert.Equal(t, got, l.State().Items[0])
}

func TestDetail_CreateAppends(t *testing.T) {
	l := loadedList(t, 2)
	d := NewDetail(Backend[item, string]{
		Create: func(_ context.Context, name string) (item, error) {
			return item{ID: "srv-1", Name: name}, nil
		},
	}).Sync(l)

	_, err := d.Create(context.Background(), "fresh")
	require.NoError(t, err)

	s := l.State()
	assert.Len(t, s.Items, 3)
	assert.Equal(t, "srv-1", s.Items[2].ID)
}

func TestDetail_UnsupportedOperations(t *testing.T) {
	d := NewDetail(Backend[item, string]{})
	ctx := context.Background()

	_, err := d.FetchOne(ctx, "x")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = d.Create(ctx, "x")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = d.Update(ctx, "x", "y")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, d.Remove(ctx, "x"), ErrUnsupported)
}

func TestWindow_PastTheEnd(t *testing.T) {
	fetch := Window(func(context.Context) ([]item, error) { return items(3), nil })

	p, err := fetch(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.Total)
}
