// Package memtx gives in-memory repositories all-or-nothing semantics. Writes
// made inside a unit of work journal an undo func; a failed unit of work runs
// its journal backwards, so only the keys it touched are reverted.
package memtx

import (
	"context"
	"sync"
)

type txKey struct{}

// journal is the undo log of one running unit of work.
type journal struct {
	owner *UnitOfWork
	mu    sync.Mutex
	undo  []func()
}

func (j *journal) add(undo func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, undo)
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// UnitOfWork serializes units of work over in-memory repositories.
type UnitOfWork struct {
	mu sync.Mutex
}

func New() *UnitOfWork {
	return &UnitOfWork{}
}

// Record registers undo with the unit of work carried by ctx. Writes made
// outside a unit of work are not journaled and commit immediately.
func Record(ctx context.Context, undo func()) {
	if ctx == nil || undo == nil {
		return
	}
	if j, ok := ctx.Value(txKey{}).(*journal); ok {
		j.add(undo)
	}
}

// WithinTx runs fn and undoes its journaled writes when fn fails or panics.
// Nested calls join the outer unit of work.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if j, ok := ctx.Value(txKey{}).(*journal); ok && j.owner == u {
		return fn(ctx)
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	j := &journal{owner: u}
	defer func() {
		if r := recover(); r != nil {
			j.rollback()
			panic(r)
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		j.rollback()
		return err
	}
	return nil
}
