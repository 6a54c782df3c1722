// Package orderpb holds client stubs for the orders.v1 services, written the
// way the stub generator emits them. Messages are well-known wrapper types so
// the package needs no generated message code.
package orderpb

import (
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type (
	GetOrderRequest    = wrapperspb.StringValue
	CancelOrderRequest = wrapperspb.StringValue
	WatchOrdersRequest = wrapperspb.StringValue
	OrderReply         = wrapperspb.StringValue
	HealthReply        = emptypb.Empty
)
