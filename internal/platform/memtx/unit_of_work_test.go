package memtx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// register is a keyed store that journals its writes like the memory repositories do.
type register struct {
	mu     sync.Mutex
	values map[string]int
}

func newRegister() *register { return &register{values: map[string]int{}} }

func (r *register) set(ctx context.Context, key string, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous, existed := r.values[key]
	r.values[key] = value
	Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if existed {
			r.values[key] = previous
		} else {
			delete(r.values, key)
		}
	})
}

func (r *register) get(key string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	r := newRegister()
	uow := New()

	err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
		r.set(ctx, "a", 5)
		return nil
	})
	require.NoError(t, err)
	v, _ := r.get("a")
	assert.Equal(t, 5, v)
}

func TestWithinTx_UndoesOnError(t *testing.T) {
	r := newRegister()
	r.set(context.Background(), "a", 1)
	uow := New()
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
		r.set(ctx, "a", 5)
		r.set(ctx, "a", 7)
		r.set(ctx, "b", 2)
		return boom
	})
	require.ErrorIs(t, err, boom)
	v, _ := r.get("a")
	assert.Equal(t, 1, v)
	_, ok := r.get("b")
	assert.False(t, ok)
}

func TestWithinTx_KeepsWritesMadeOutsideTheUnit(t *testing.T) {
	r := newRegister()
	uow := New()

	err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
		r.set(ctx, "mine", 1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			r.set(context.Background(), "theirs", 2)
		}()
		<-done
		return errors.New("later step failed")
	})
	require.Error(t, err)
	_, ok := r.get("mine")
	assert.False(t, ok)
	v, ok := r.get("theirs")
	require.True(t, ok, "a committed write from another caller survives the rollback")
	assert.Equal(t, 2, v)
}

func TestWithinTx_NestedCallsJoinOuter(t *testing.T) {
	r := newRegister()
	uow := New()

	err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
		r.set(ctx, "a", 2)
		_ = uow.WithinTx(ctx, func(ctx context.Context) error {
			r.set(ctx, "a", 3)
			return nil
		})
		return errors.New("outer failed")
	})
	require.Error(t, err)
	_, ok := r.get("a")
	assert.False(t, ok)
}

func TestWithinTx_UndoesOnPanic(t *testing.T) {
	r := newRegister()
	uow := New()

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context) error {
			r.set(ctx, "a", 9)
			panic("boom")
		})
	})
	_, ok := r.get("a")
	assert.False(t, ok)
}
