package orderpb

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/bsmider/reactorgen/reactor/stubs"
)

const HealthService_Check_FullMethodName = "/orders.v1.HealthService/Check"

// HealthGrpc exposes no stub factories.
type HealthGrpc struct{}

// HealthGrpcStub only has blocking calls.
type HealthGrpcStub struct {
	stubs.AbstractBlockingStub
}

func (s *HealthGrpcStub) Check(ctx context.Context) (*HealthReply, error) {
	return stubs.BlockingUnary[emptypb.Empty, HealthReply](ctx, s, HealthService_Check_FullMethodName, &emptypb.Empty{})
}
