package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/processes"
	"github.com/bsmider/reactorgen/factory/utils"
)

// fakeProtoc writes a script that copies a canned descriptor set to the
// --descriptor_set_out path and fails on any file named bad.proto.
func fakeProtoc(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()

	fixture := filepath.Join(dir, "fixture.desc")
	require.NoError(t, utils.WriteDescriptorSet(fixture, &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{{
			Name:    proto.String("order.proto"),
			Package: proto.String("shop"),
			Service: []*descriptorpb.ServiceDescriptorProto{{Name: proto.String("Order")}},
		}},
	}))

	script := fmt.Sprintf(`#!/bin/sh
for a in "$@"; do
  case "$a" in
    --descriptor_set_out=*) out="${a#--descriptor_set_out=}" ;;
    *bad.proto) echo "bad.proto:1:1: syntax error" >&2; exit 1 ;;
    *slow.proto) sleep 10 ;;
  esac
done
cp %q "$out"
`, fixture)
	path := filepath.Join(dir, "protoc")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func writeSchemas(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(`syntax = "proto3";`), 0644))
	}
	return dir
}

func TestFindSchemas(t *testing.T) {
	dir := writeSchemas(t, "b.proto", "a.proto", "nested/c.proto", "README.md")

	files, err := FindSchemas(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.proto", "b.proto", filepath.Join("nested", "c.proto")}, files)
}

func TestFindSchemasMissingDir(t *testing.T) {
	_, err := FindSchemas(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCompileAll(t *testing.T) {
	protoc := fakeProtoc(t)
	src := writeSchemas(t, "order.proto", "bad.proto", "user.proto")
	out := t.TempDir()

	o := NewOrchestrator(Settings{
		Protoc:        protoc,
		DescriptorDir: filepath.Join(out, "desc"),
		Workers:       2,
		Timeout:       10 * time.Second,
	}, zap.NewNop().Sugar())

	results, err := o.CompileAll(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// path order
	assert.Equal(t, "bad.proto", results[0].File)
	assert.Equal(t, "order.proto", results[1].File)
	assert.Equal(t, "user.proto", results[2].File)

	var exitErr *processes.ExitError
	require.True(t, errors.As(results[0].Err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)

	for _, r := range results[1:] {
		require.True(t, r.OK(), "%s: %v", r.File, r.Err)
		assert.Equal(t, []string{"shop.Order"}, r.Services)
		assert.FileExists(t, r.Descriptor)
		assert.NotEmpty(t, r.Worker)
	}
	assert.Equal(t, filepath.Join(out, "desc", "user.desc"), results[2].Descriptor)
}

func TestCompileAllSameBaseNameInDifferentDirs(t *testing.T) {
	protoc := fakeProtoc(t)
	src := writeSchemas(t, "billing/v1/order.proto", "shipping/v1/order.proto")
	desc := filepath.Join(t.TempDir(), "desc")

	o := NewOrchestrator(Settings{
		Protoc:        protoc,
		DescriptorDir: desc,
		Workers:       2,
		Timeout:       10 * time.Second,
	}, zap.NewNop().Sugar())

	results, err := o.CompileAll(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		require.True(t, r.OK(), "%s: %v", r.File, r.Err)
		assert.FileExists(t, r.Descriptor)
	}
	assert.Equal(t, filepath.Join(desc, "billing", "v1", "order.desc"), results[0].Descriptor)
	assert.Equal(t, filepath.Join(desc, "shipping", "v1", "order.desc"), results[1].Descriptor)
}

func TestCompileAllEmptyDir(t *testing.T) {
	o := NewOrchestrator(Settings{DescriptorDir: t.TempDir()}, zap.NewNop().Sugar())

	results, err := o.CompileAll(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompileAllTimeout(t *testing.T) {
	protoc := fakeProtoc(t)
	src := writeSchemas(t, "slow.proto")

	o := NewOrchestrator(Settings{
		Protoc:        protoc,
		DescriptorDir: t.TempDir(),
		Workers:       1,
		Timeout:       100 * time.Millisecond,
		Retries:       1,
	}, zap.NewNop().Sugar())

	results, err := o.CompileAll(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, errors.IsTimeoutError(results[0].Err), "got %v", results[0].Err)
}

func TestWorkerCommand(t *testing.T) {
	settings := &Settings{
		Protoc:        "protoc",
		ExtraArgs:     []string{"--experimental_allow_proto3_optional"},
		PluginName:    "reactor",
		PluginPath:    "/opt/bin/protoc-gen-reactor",
		DescriptorDir: "build/desc",
		GeneratedDir:  "build/gen",
	}
	w := NewWorker(settings, zap.NewNop().Sugar())

	cmd := w.Command("schemas", "shop/order.proto", time.Second)
	assert.Equal(t, processes.ExecutableName("protoc"), cmd.Name)
	assert.Equal(t, []string{
		"--proto_path=schemas",
		"--descriptor_set_out=" + filepath.Join("build/desc", "shop", "order.desc"),
		"--include_imports",
		"--plugin=protoc-gen-reactor=/opt/bin/protoc-gen-reactor",
		"--reactor_out=build/gen",
		"--experimental_allow_proto3_optional",
		filepath.Join("schemas", "shop/order.proto"),
	}, cmd.Args)
	assert.Equal(t, time.Second, cmd.Timeout)
}

func TestWorkerPoolRoundRobin(t *testing.T) {
	pool := NewWorkerPool(nil, time.Second, 0)
	assert.Nil(t, pool.SelectWorker())

	settings := &Settings{}
	a, b := NewWorker(settings, zap.NewNop().Sugar()), NewWorker(settings, zap.NewNop().Sugar())
	pool.Add(a)
	pool.Add(b)

	assert.Same(t, a, pool.SelectWorker())
	assert.Same(t, b, pool.SelectWorker())
	assert.Same(t, a, pool.SelectWorker())
}
