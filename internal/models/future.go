package models

import (
	"context"
)

type Result[T any] struct {
	Data T
	Err  error
}

// Future carries the single result of work running on a fiber manager.
type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() chan T {
	return f.input
}

// Stop cancels the work. A result is still delivered on C.
func (f *Future[T]) Stop() {
	f.cancel()
}
