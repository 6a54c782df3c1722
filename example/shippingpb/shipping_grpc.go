// Package shippingpb holds stubs of the shipping.v1 service whose callback
// methods do not all take (request, receiver) in that order.
package shippingpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/bsmider/reactorgen/reactor"
	"github.com/bsmider/reactorgen/reactor/stubs"
)

type (
	GetShipmentRequest    = wrapperspb.StringValue
	RefundShipmentRequest = wrapperspb.StringValue
	TraceShipmentRequest  = wrapperspb.StringValue
	MergeShipmentRequest  = wrapperspb.StringValue
	TrackShipmentRequest  = wrapperspb.StringValue
	ShipmentReply         = wrapperspb.StringValue
)

const (
	ShippingService_GetShipment_FullMethodName    = "/shipping.v1.ShippingService/GetShipment"
	ShippingService_RefundShipment_FullMethodName = "/shipping.v1.ShippingService/RefundShipment"
	ShippingService_TraceShipment_FullMethodName  = "/shipping.v1.ShippingService/TraceShipment"
	ShippingService_MergeShipments_FullMethodName = "/shipping.v1.ShippingService/MergeShipments"
	ShippingService_TrackShipment_FullMethodName  = "/shipping.v1.ShippingService/TrackShipment"
)

// ShippingGrpc creates stubs of the shipping.v1.ShippingService service.
type ShippingGrpc struct{}

func (ShippingGrpc) NewStub(cc grpc.ClientConnInterface) *ShippingGrpcStub {
	return &ShippingGrpcStub{stubs.Async(cc)}
}

// ShippingGrpcStub reports replies through a ResponseReceiver.
type ShippingGrpcStub struct {
	stubs.AbstractAsyncStub
}

func (s *ShippingGrpcStub) GetShipment(request *GetShipmentRequest, responseReceiver reactor.ResponseReceiver[*ShipmentReply]) {
	stubs.AsyncUnary(context.Background(), s, ShippingService_GetShipment_FullMethodName, request, responseReceiver)
}

// RefundShipment takes the receiver first.
func (s *ShippingGrpcStub) RefundShipment(responseReceiver reactor.ResponseReceiver[*ShipmentReply], request *RefundShipmentRequest) {
	stubs.AsyncUnary(context.Background(), s, ShippingService_RefundShipment_FullMethodName, request, responseReceiver)
}

func (s *ShippingGrpcStub) TraceShipment(ctx context.Context, request *TraceShipmentRequest, responseReceiver reactor.ResponseReceiver[*ShipmentReply]) {
	stubs.AsyncUnary(ctx, s, ShippingService_TraceShipment_FullMethodName, request, responseReceiver)
}

// MergeShipments sends only the first request; the second is a tag.
func (s *ShippingGrpcStub) MergeShipments(first *MergeShipmentRequest, second *MergeShipmentRequest, responseReceiver reactor.ResponseReceiver[*ShipmentReply]) {
	stubs.AsyncUnary(context.Background(), s, ShippingService_MergeShipments_FullMethodName, first, responseReceiver)
}

func (s *ShippingGrpcStub) TrackShipment(stub *TrackShipmentRequest, responseReceiver reactor.ResponseReceiver[*ShipmentReply]) {
	stubs.AsyncUnary(context.Background(), s, ShippingService_TrackShipment_FullMethodName, stub, responseReceiver)
}
