// Package reactor is the runtime that generated clients and configs link
// against: a single-value Promise and the bridge from callback-style gRPC
// stubs to it.
package reactor

import (
	"context"
	"sync"

	"github.com/bsmider/reactorgen/errors"
)

// Promise is a value of type T that becomes available at most once.
// It settles exactly once, either with a value or with an error.
type Promise[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// New returns an unsettled promise.
func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise already settled with v.
func Resolved[T any](v T) *Promise[T] {
	p := New[T]()
	p.Resolve(v)
	return p
}

// Rejected returns a promise already settled with err.
func Rejected[T any](err error) *Promise[T] {
	p := New[T]()
	p.Reject(err)
	return p
}

// Resolve settles the promise with v. It reports false if it was already settled.
func (p *Promise[T]) Resolve(v T) bool {
	return p.settle(v, nil)
}

// Reject settles the promise with err. A nil err is replaced by a generic error.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = errors.New("promise rejected without cause")
	}
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value, p.err = v, err
		close(p.done)
		settled = true
	})
	return settled
}

// Done is closed once the promise has settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or ctx is done.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Map derives a promise by applying fn to the value of p. Errors propagate.
func Map[T, U any](p *Promise[T], fn func(T) (U, error)) *Promise[U] {
	out := New[U]()
	go func() {
		<-p.done
		if p.err != nil {
			out.Reject(p.err)
			return
		}
		defer recoverInto(out)
		u, err := fn(p.value)
		if err != nil {
			out.Reject(err)
			return
		}
		out.Resolve(u)
	}()
	return out
}

// FlatMap chains a promise-returning step after p.
func FlatMap[T, U any](p *Promise[T], fn func(T) *Promise[U]) *Promise[U] {
	out := New[U]()
	go func() {
		<-p.done
		if p.err != nil {
			out.Reject(p.err)
			return
		}
		defer recoverInto(out)
		next := fn(p.value)
		if next == nil {
			out.Reject(errors.New("flatMap step returned nil promise"))
			return
		}
		<-next.done
		out.settle(next.value, next.err)
	}()
	return out
}

func recoverInto[T any](p *Promise[T]) {
	if r := recover(); r != nil {
		p.Reject(errors.Newf("panic: %v", r))
	}
}
