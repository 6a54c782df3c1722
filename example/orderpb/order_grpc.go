package orderpb

import (
	"context"

	"google.golang.org/grpc"

	"github.com/bsmider/reactorgen/reactor"
	"github.com/bsmider/reactorgen/reactor/stubs"
)

const (
	OrderService_GetOrder_FullMethodName    = "/orders.v1.OrderService/GetOrder"
	OrderService_CancelOrder_FullMethodName = "/orders.v1.OrderService/CancelOrder"
	OrderService_WatchOrders_FullMethodName = "/orders.v1.OrderService/WatchOrders"
)

// OrderGrpc creates stubs of the orders.v1.OrderService service.
type OrderGrpc struct{}

func (OrderGrpc) NewStub(cc grpc.ClientConnInterface) *OrderGrpcStub {
	return &OrderGrpcStub{stubs.Async(cc)}
}

func (OrderGrpc) NewBlockingStub(cc grpc.ClientConnInterface) *OrderGrpcBlockingStub {
	return &OrderGrpcBlockingStub{stubs.Blocking(cc)}
}

func (OrderGrpc) NewFutureStub(cc grpc.ClientConnInterface) *OrderGrpcFutureStub {
	return &OrderGrpcFutureStub{stubs.Future(cc)}
}

// OrderGrpcStub reports replies through a ResponseReceiver.
type OrderGrpcStub struct {
	stubs.AbstractAsyncStub
}

func (s *OrderGrpcStub) GetOrder(request *GetOrderRequest, responseReceiver reactor.ResponseReceiver[*OrderReply]) {
	stubs.AsyncUnary(context.Background(), s, OrderService_GetOrder_FullMethodName, request, responseReceiver)
}

func (s *OrderGrpcStub) CancelOrder(request *CancelOrderRequest, responseReceiver reactor.ResponseReceiver[*OrderReply]) {
	stubs.AsyncUnary(context.Background(), s, OrderService_CancelOrder_FullMethodName, request, responseReceiver)
}

// WatchOrders is server streaming.
func (s *OrderGrpcStub) WatchOrders(ctx context.Context, request *WatchOrdersRequest) (grpc.ClientStream, error) {
	desc := &grpc.StreamDesc{StreamName: "WatchOrders", ServerStreams: true}
	stream, err := s.Conn().NewStream(ctx, desc, OrderService_WatchOrders_FullMethodName, s.CallOptions()...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(request); err != nil {
		return nil, err
	}
	return stream, stream.CloseSend()
}

// OrderGrpcBlockingStub waits for each reply.
type OrderGrpcBlockingStub struct {
	stubs.AbstractBlockingStub
}

func (s *OrderGrpcBlockingStub) GetOrder(ctx context.Context, request *GetOrderRequest) (*OrderReply, error) {
	return stubs.BlockingUnary[GetOrderRequest, OrderReply](ctx, s, OrderService_GetOrder_FullMethodName, request)
}

// OrderGrpcFutureStub returns a promise per call.
type OrderGrpcFutureStub struct {
	stubs.AbstractFutureStub
}

func (s *OrderGrpcFutureStub) GetOrder(ctx context.Context, request *GetOrderRequest) *reactor.Promise[*OrderReply] {
	return stubs.FutureUnary[GetOrderRequest, OrderReply](ctx, s, OrderService_GetOrder_FullMethodName, request)
}
