package reactor

import (
	"github.com/bsmider/reactorgen/errors"
)

// ErrCompletedWithoutValue rejects a bridged call whose stream completed
// before delivering a value.
var ErrCompletedWithoutValue = errors.New("call completed without a value")

// ResponseReceiver is the callback interface of asynchronous stubs.
type ResponseReceiver[T any] interface {
	OnNext(value T)
	OnError(err error)
	OnCompleted()
}

// ReceiverFuncs adapts plain functions to a ResponseReceiver. Nil funcs are ignored.
type ReceiverFuncs[T any] struct {
	Next      func(T)
	Error     func(error)
	Completed func()
}

func (r ReceiverFuncs[T]) OnNext(value T) {
	if r.Next != nil {
		r.Next(value)
	}
}

func (r ReceiverFuncs[T]) OnError(err error) {
	if r.Error != nil {
		r.Error(err)
	}
}

func (r ReceiverFuncs[T]) OnCompleted() {
	if r.Completed != nil {
		r.Completed()
	}
}

type promiseReceiver[T any] struct {
	p *Promise[T]
}

func (r promiseReceiver[T]) OnNext(value T)    { r.p.Resolve(value) }
func (r promiseReceiver[T]) OnError(err error) { r.p.Reject(err) }
func (r promiseReceiver[T]) OnCompleted()      { r.p.Reject(ErrCompletedWithoutValue) }

// BridgeSingleCallback invokes call with req and a receiver wired to the
// returned promise. The first value or error settles it; a completion with
// no prior value rejects it with ErrCompletedWithoutValue; anything after
// that is ignored. A panic inside call rejects the promise.
func BridgeSingleCallback[Req, Resp any](req Req, call func(Req, ResponseReceiver[Resp])) *Promise[Resp] {
	p := New[Resp]()
	if call == nil {
		p.Reject(errors.New("bridge: nil call"))
		return p
	}
	func() {
		defer recoverInto(p)
		call(req, promiseReceiver[Resp]{p: p})
	}()
	return p
}

// NoRequest adapts a call that takes only a receiver so it can be bridged
// with a nil request.
func NoRequest[Resp any](call func(ResponseReceiver[Resp])) func(any, ResponseReceiver[Resp]) {
	return func(_ any, r ResponseReceiver[Resp]) {
		call(r)
	}
}
