package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func TestDescriptorSetFile(t *testing.T) {
	set := &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{{
		Name:    proto.String("order.proto"),
		Package: proto.String("orders.v1"),
		Service: []*descriptorpb.ServiceDescriptorProto{{Name: proto.String("Order")}, {Name: proto.String("Audit")}},
	}}}

	dir := filepath.Join(t.TempDir(), "desc")
	path := DescriptorPath(dir, "proto/order.proto")
	assert.Equal(t, filepath.Join(dir, "proto", "order.desc"), path)
	require.NoError(t, WriteDescriptorSet(path, set))

	got, err := ReadDescriptorSet(path)
	require.NoError(t, err)
	assert.True(t, proto.Equal(set, got))
	assert.Equal(t, []string{"orders.v1.Order", "orders.v1.Audit"}, ServiceNames(got))
}

func TestDescriptorPathKeepsSchemaDirectories(t *testing.T) {
	billing := DescriptorPath("out", "billing/v1/order.proto")
	shipping := DescriptorPath("out", "shipping/v1/order.proto")

	assert.Equal(t, filepath.Join("out", "billing", "v1", "order.desc"), billing)
	assert.Equal(t, filepath.Join("out", "shipping", "v1", "order.desc"), shipping)
	assert.NotEqual(t, billing, shipping)
	assert.Equal(t, filepath.Join("out", "order.desc"), DescriptorPath("out", "order.proto"))
}

func TestReadDescriptorSetMissing(t *testing.T) {
	_, err := ReadDescriptorSet(filepath.Join(t.TempDir(), "none.desc"))
	assert.Error(t, err)
}
