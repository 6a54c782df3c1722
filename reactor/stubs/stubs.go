// Package stubs holds the capability base types that generated gRPC stubs
// embed, and the factories the generated config classes call.
package stubs

import (
	"context"

	"google.golang.org/grpc"

	"github.com/bsmider/reactorgen/reactor"
)

// AbstractStub is the base of every stub: a connection plus default call options.
type AbstractStub struct {
	cc   grpc.ClientConnInterface
	opts []grpc.CallOption
}

// Base returns an AbstractStub bound to cc.
func Base(cc grpc.ClientConnInterface, opts ...grpc.CallOption) AbstractStub {
	return AbstractStub{cc: cc, opts: opts}
}

// Conn returns the connection the stub issues calls on.
func (s AbstractStub) Conn() grpc.ClientConnInterface { return s.cc }

// CallOptions returns the default options appended to every call.
func (s AbstractStub) CallOptions() []grpc.CallOption { return s.opts }

// AbstractFutureStub marks stubs whose calls return a promise.
type AbstractFutureStub struct{ AbstractStub }

func (AbstractFutureStub) futureStub() {}

// AbstractBlockingStub marks stubs whose calls block until the reply.
type AbstractBlockingStub struct{ AbstractStub }

func (AbstractBlockingStub) blockingStub() {}

// AbstractAsyncStub marks stubs whose calls report through a ResponseReceiver.
type AbstractAsyncStub struct{ AbstractStub }

func (AbstractAsyncStub) asyncStub() {}

// Future, Blocking and Async build the embedded base for each variant.
func Future(cc grpc.ClientConnInterface, opts ...grpc.CallOption) AbstractFutureStub {
	return AbstractFutureStub{Base(cc, opts...)}
}

func Blocking(cc grpc.ClientConnInterface, opts ...grpc.CallOption) AbstractBlockingStub {
	return AbstractBlockingStub{Base(cc, opts...)}
}

func Async(cc grpc.ClientConnInterface, opts ...grpc.CallOption) AbstractAsyncStub {
	return AbstractAsyncStub{Base(cc, opts...)}
}

// Stub is satisfied by anything embedding AbstractStub.
type Stub interface {
	Conn() grpc.ClientConnInterface
}

type FutureStub interface {
	Stub
	futureStub()
}

type BlockingStub interface {
	Stub
	blockingStub()
}

type AsyncStub interface {
	Stub
	asyncStub()
}

// NewStub resolves to the stub built by factory once conn is ready.
// factory is a service constructor such as OrderGrpc{}.NewBlockingStub.
func NewStub[S Stub](conn *reactor.Promise[*grpc.ClientConn], factory func(grpc.ClientConnInterface) S) *reactor.Promise[S] {
	return build(conn, factory)
}

func NewFutureStub[S FutureStub](conn *reactor.Promise[*grpc.ClientConn], factory func(grpc.ClientConnInterface) S) *reactor.Promise[S] {
	return build(conn, factory)
}

func NewBlockingStub[S BlockingStub](conn *reactor.Promise[*grpc.ClientConn], factory func(grpc.ClientConnInterface) S) *reactor.Promise[S] {
	return build(conn, factory)
}

func NewAsyncStub[S AsyncStub](conn *reactor.Promise[*grpc.ClientConn], factory func(grpc.ClientConnInterface) S) *reactor.Promise[S] {
	return build(conn, factory)
}

func build[S Stub](conn *reactor.Promise[*grpc.ClientConn], factory func(grpc.ClientConnInterface) S) *reactor.Promise[S] {
	return reactor.Map(conn, func(cc *grpc.ClientConn) (S, error) {
		return factory(cc), nil
	})
}

// AsyncUnary issues a unary call in the background and reports the reply,
// or the error, to recv.
func AsyncUnary[Req, Resp any](ctx context.Context, s Stub, method string, req *Req, recv reactor.ResponseReceiver[*Resp], opts ...grpc.CallOption) {
	go func() {
		resp := new(Resp)
		if err := s.Conn().Invoke(ctx, method, req, resp, callOptions(s, opts)...); err != nil {
			recv.OnError(err)
			return
		}
		recv.OnNext(resp)
		recv.OnCompleted()
	}()
}

// FutureUnary issues a unary call and returns a promise of its reply.
func FutureUnary[Req, Resp any](ctx context.Context, s Stub, method string, req *Req, opts ...grpc.CallOption) *reactor.Promise[*Resp] {
	p := reactor.New[*Resp]()
	AsyncUnary(ctx, s, method, req, reactor.ReceiverFuncs[*Resp]{
		Next:  func(r *Resp) { p.Resolve(r) },
		Error: func(err error) { p.Reject(err) },
	}, opts...)
	return p
}

// BlockingUnary issues a unary call and waits for the reply.
func BlockingUnary[Req, Resp any](ctx context.Context, s Stub, method string, req *Req, opts ...grpc.CallOption) (*Resp, error) {
	resp := new(Resp)
	if err := s.Conn().Invoke(ctx, method, req, resp, callOptions(s, opts)...); err != nil {
		return nil, err
	}
	return resp, nil
}

func callOptions(s Stub, extra []grpc.CallOption) []grpc.CallOption {
	type withOptions interface{ CallOptions() []grpc.CallOption }
	var out []grpc.CallOption
	if o, ok := s.(withOptions); ok {
		out = append(out, o.CallOptions()...)
	}
	return append(out, extra...)
}
