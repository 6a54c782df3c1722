package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsmider/reactorgen/errors"
)

func TestQualifiedNames(t *testing.T) {
	tests := []struct {
		name   string
		simple string
		pkg    string
	}{
		{"example.com/orders/orderpb.OrderGrpc", "OrderGrpc", "example.com/orders/orderpb"},
		{"example.com/orders.v1/orderpb.OrderGrpc", "OrderGrpc", "example.com/orders.v1/orderpb"},
		{"example.com/orders.v1/orderpb", "example.com/orders.v1/orderpb", ""},
		{"string", "string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.simple, SimpleName(tt.name))
			assert.Equal(t, tt.pkg, PackageOf(tt.name))
		})
	}

	assert.Equal(t, "a/b.C", Qualify("a/b", "C"))
	assert.Equal(t, "a/b/config", SubPackage("a/b", "config"))
}

func TestTypeRefString(t *testing.T) {
	ref := PtrRef("r.Promise", PtrRef("g.ClientConn"))
	assert.Equal(t, "*r.Promise[*g.ClientConn]", ref.String())
	assert.True(t, ref.Equal(PtrRef("r.Promise", PtrRef("g.ClientConn"))))
	assert.False(t, ref.Equal(Ref("r.Promise", PtrRef("g.ClientConn"))))
	assert.True(t, Void.IsVoid())
	assert.True(t, TypeRef{}.IsVoid())
}

func TestBuilderIndexesNested(t *testing.T) {
	stub := &Class{Name: "p.OrderStub"}
	svc := &Class{Name: "p.OrderGrpc", Nested: []*Class{stub}}

	b := NewBuilder(nil)
	require.NoError(t, b.Add(svc))
	m := b.Build()

	assert.Equal(t, 2, m.Len())
	assert.Same(t, stub, m.Lookup("p.OrderStub"))
	assert.Equal(t, "p.OrderGrpc", m.OuterOf(stub))
	assert.Len(t, m.TopLevel(), 1)
}

func TestBuilderLeavesInputUntouched(t *testing.T) {
	stub := &Class{Name: "p.OrderStub"}
	svc := &Class{Name: "p.OrderGrpc", Nested: []*Class{stub}}

	first, err := New(svc)
	require.NoError(t, err)
	assert.Empty(t, stub.Outer, "nesting is recorded by the model, not written to the class")

	// The same input can seed a second, independent pass.
	next := NewBuilder(first)
	require.NoError(t, next.Add(&Class{Name: "p.OrderGrpcClient"}))
	m := next.Build()
	assert.Equal(t, "p.OrderGrpc", m.OuterOf(stub))
	assert.Len(t, m.TopLevel(), 2)
}

func TestBuilderRejectsConflictingOuter(t *testing.T) {
	stub := &Class{Name: "p.OrderStub", Outer: "p.Other"}
	_, err := New(&Class{Name: "p.OrderGrpc", Nested: []*Class{stub}})
	assert.Error(t, err)
}

func TestBuilderRejectsDuplicatesAndReuse(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.Add(&Class{Name: "p.A"}))
	assert.Error(t, b.Add(&Class{Name: "p.A"}))

	b.Build()
	err := b.Add(&Class{Name: "p.B"})
	assert.True(t, errors.Is(err, ErrBuilderClosed))
}

func TestBuildDoesNotAliasBase(t *testing.T) {
	base, err := New(&Class{Name: "p.A"})
	require.NoError(t, err)

	b := NewBuilder(base)
	require.NoError(t, b.Add(&Class{Name: "p.B"}))
	next := b.Build()

	assert.Equal(t, 1, base.Len(), "base model must stay unchanged")
	assert.Equal(t, 2, next.Len())
	assert.Nil(t, base.Lookup("p.B"))
}

func TestIsSubtypeTransitive(t *testing.T) {
	m, err := New(
		&Class{Name: "s.AbstractStub", Kind: KindInterface},
		&Class{Name: "s.AbstractFutureStub", Supertypes: []TypeRef{Ref("s.AbstractStub")}},
		&Class{Name: "p.OrderFutureStub", Supertypes: []TypeRef{Ref("s.AbstractFutureStub")}},
		&Class{Name: "p.Loop", Supertypes: []TypeRef{Ref("p.Loop2")}},
		&Class{Name: "p.Loop2", Supertypes: []TypeRef{Ref("p.Loop")}},
	)
	require.NoError(t, err)

	assert.True(t, m.IsSubtype(PtrRef("p.OrderFutureStub"), "s.AbstractStub"))
	assert.True(t, m.IsSubtype(Ref("p.OrderFutureStub"), "s.AbstractFutureStub"))
	assert.False(t, m.IsSubtype(Ref("s.AbstractStub"), "s.AbstractFutureStub"))
	assert.False(t, m.IsSubtype(Ref("p.Unknown"), "s.AbstractStub"))
	assert.False(t, m.IsSubtype(Ref("p.Loop"), "s.AbstractStub"), "cycles terminate")
}

func TestHasMethodsThroughSupertypes(t *testing.T) {
	m, err := New(
		&Class{Name: "p.Base", Methods: []*Method{{Name: "OnNext"}, {Name: "OnError"}}},
		&Class{Name: "p.Obs", Supertypes: []TypeRef{Ref("p.Base")}, Methods: []*Method{{Name: "OnCompleted"}}},
	)
	require.NoError(t, err)

	assert.True(t, m.HasMethods(Ref("p.Obs"), "OnNext", "OnError", "OnCompleted"))
	assert.False(t, m.HasMethods(Ref("p.Base"), "OnNext", "OnCompleted"))
	assert.False(t, m.HasMethods(Ref("p.Obs")))
}
