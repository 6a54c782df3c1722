package factory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bsmider/reactorgen/factory/model"
)

const (
	testPkg  = "example.com/orders/orderpb"
	testBase = "example.com/app/reactive"
)

func q(simple string) string { return model.Qualify(testPkg, simple) }

func testConfig() CodeGenConfig {
	cfg := DefaultCodeGenConfig()
	cfg.BasePackage = testBase
	cfg.OutputDir = "unused"
	return cfg
}

func receiverOf(t model.TypeRef) model.TypeRef {
	return model.Ref(ResponseReceiverType, t)
}

func callback(name string, params ...model.Param) *model.Method {
	return &model.Method{Name: name, Params: params, Returns: model.Void}
}

func factoryMethod(name, stub string) *model.Method {
	return &model.Method{
		Name:    name,
		Params:  []model.Param{{Name: "cc", Type: model.Ref(GrpcPackage + ".ClientConnInterface")}},
		Returns: model.PtrRef(q(stub)),
	}
}

func stubClass(name, base string, methods ...*model.Method) *model.Class {
	return &model.Class{
		Name:       q(name),
		Kind:       model.KindStruct,
		Supertypes: []model.TypeRef{model.Ref(base)},
		Methods:    methods,
	}
}

// orderService mirrors generated stubs for a service "OrderGrpc".
func orderService() *model.Class {
	getOrder := callback("getOrder",
		model.Param{Name: "request", Type: model.PtrRef(q("GetOrderRequest"))},
		model.Param{Name: "responseObserver", Type: receiverOf(model.PtrRef(q("OrderReply")))},
	)
	cancel := callback("cancelOrder",
		model.Param{Name: "request", Type: model.PtrRef(q("CancelOrderRequest"))},
		model.Param{Name: "responseObserver", Type: receiverOf(model.PtrRef(q("OrderReply")))},
	)
	stream := &model.Method{
		Name:    "watchOrders",
		Params:  []model.Param{{Name: "request", Type: model.PtrRef(q("WatchOrdersRequest"))}},
		Returns: model.Ref(GrpcPackage + ".ClientStream"),
	}

	return &model.Class{
		Name: q("OrderGrpc"),
		Kind: model.KindStruct,
		Nested: []*model.Class{
			{Name: q("GetOrderRequest")},
			stubClass("OrderGrpcStub", AbstractAsyncStubType, getOrder, cancel, stream),
			stubClass("OrderGrpcBlockingStub", AbstractBlockingStubType),
			stubClass("OrderGrpcFutureStub", AbstractFutureStubType),
		},
		Methods: []*model.Method{
			factoryMethod("newStub", "OrderGrpcStub"),
			factoryMethod("newBlockingStub", "OrderGrpcBlockingStub"),
			factoryMethod("NewFutureStub", "OrderGrpcFutureStub"),
			{Name: "bindService", Returns: model.Ref(GrpcPackage + ".ServiceDesc")},
		},
	}
}

func buildModel(t *testing.T, classes ...*model.Class) *model.Model {
	t.Helper()
	b := model.NewBuilder(nil)
	for _, c := range classes {
		require.NoError(t, b.Add(c))
	}
	require.NoError(t, withBuiltins(b))
	return b.Build()
}
