package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
)

const (
	exampleStubDir    = "../example/orderpb"
	exampleImportPath = "github.com/bsmider/reactorgen/example/orderpb"
	exampleBase       = "github.com/bsmider/reactorgen/example/reactive"
)

func exampleModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := LoadStubModel(context.Background(), exampleStubDir, exampleImportPath)
	require.NoError(t, err)
	return m
}

func exampleConfig(outputDir string) CodeGenConfig {
	cfg := DefaultCodeGenConfig()
	cfg.BasePackage = exampleBase
	cfg.OutputDir = outputDir
	return cfg
}

func TestSynthesizeExampleStubs(t *testing.T) {
	in := exampleModel(t)
	out, report, err := NewGenerator(exampleConfig(t.TempDir()), nil).Synthesize(in)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Services)
	assert.Equal(t, []string{exampleBase + ".OrderGrpcClient"}, report.Clients)
	assert.Equal(t, []string{exampleBase + "/config.HealthGrpcConfig", exampleBase + "/config.OrderGrpcConfig"}, report.Configs,
		"services are visited in file then declaration order")
	assert.Equal(t, 2, report.Methods)
	assert.Equal(t, 3, report.Factories)
	assert.Empty(t, report.Skipped)

	assert.Nil(t, in.Lookup(exampleBase+".OrderGrpcClient"), "input model is left untouched")
	assert.NotNil(t, out.Lookup(exampleImportPath+".OrderGrpc"), "output keeps the parsed declarations")

	health := out.Lookup(exampleBase + "/config.HealthGrpcConfig")
	require.NotNil(t, health)
	assert.Empty(t, health.Methods)
}

func TestSynthesizeSkipsServiceWithoutStub(t *testing.T) {
	audit := &model.Class{Name: q("AuditGrpc"), Methods: []*model.Method{factoryMethod("newStub", "AuditGrpcStub")}}
	in, err := model.New(orderService(), audit)
	require.NoError(t, err)

	out, report, err := NewGenerator(testConfig(), nil).Synthesize(in)
	require.NoError(t, err)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, q("AuditGrpc"), report.Skipped[0].Service)
	var missing *MissingStubError
	assert.True(t, errors.As(report.Skipped[0].Err, &missing))

	assert.Nil(t, out.Lookup(testBase+"/config.AuditGrpcConfig"))
	assert.NotNil(t, out.Lookup(testBase+"/config.OrderGrpcConfig"), "other services continue")
	assert.NotNil(t, out.Lookup(testBase+".OrderGrpcClient"))
}

func TestSynthesizePreconditions(t *testing.T) {
	_, _, err := NewGenerator(testConfig(), nil).Synthesize(nil)
	assert.True(t, errors.Is(err, ErrNoModel))

	in, err := model.New()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.BasePackage = ""
	_, _, err = NewGenerator(cfg, nil).Synthesize(in)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	cfg = testConfig()
	cfg.ChannelLabel = "auth-grpc"
	_, _, err = NewGenerator(cfg, nil).Synthesize(in)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, report, err := NewGenerator(testConfig(), nil).Synthesize(in)
	require.NoError(t, err)
	assert.Zero(t, report.Services)
}

func TestGenerateWritesFiles(t *testing.T) {
	outDir := t.TempDir()
	cfg := exampleConfig(outDir)

	files, _, err := NewGenerator(cfg, nil).Generate(context.Background(), exampleModel(t), NewFileEmitter(outDir, nil))
	require.NoError(t, err)
	require.Len(t, files, 3)

	var rels []string
	for _, f := range files {
		rels = append(rels, filepath.ToSlash(f.RelativePath))
		assert.FileExists(t, f.FullPath)
	}
	assert.Equal(t, []string{
		exampleBase + "/OrderGrpcClient.go",
		exampleBase + "/config/HealthGrpcConfig.go",
		exampleBase + "/config/OrderGrpcConfig.go",
	}, rels, "files follow qualified-name order")

	client, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(exampleBase), "OrderGrpcClient.go"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "func (o *OrderGrpcClient) GetOrder(request *orderpb.GetOrderRequest) *reactor.Promise[*orderpb.OrderReply] {")
	assert.Contains(t, string(client), "reactor.BridgeSingleCallback(request, stub.CancelOrder)")
	assert.NotContains(t, string(client), "WatchOrders")

	config, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(exampleBase), "config", "OrderGrpcConfig.go"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "stubs.NewAsyncStub(reactorAuthGrpcChannel, new(orderpb.OrderGrpc).NewStub)")
	assert.Contains(t, string(config), "stubs.NewBlockingStub(reactorAuthGrpcChannel, new(orderpb.OrderGrpc).NewBlockingStub)")
	assert.Contains(t, string(config), "stubs.NewFutureStub(reactorAuthGrpcChannel, new(orderpb.OrderGrpc).NewFutureStub)")
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	_, _, err := NewGenerator(exampleConfig(first), nil).Generate(context.Background(), exampleModel(t), NewFileEmitter(first, nil))
	require.NoError(t, err)
	_, _, err = NewGenerator(exampleConfig(second), nil).Generate(context.Background(), exampleModel(t), NewFileEmitter(second, nil))
	require.NoError(t, err)

	diff, err := CompareDirectories(first, second)
	require.NoError(t, err)
	assert.True(t, diff.Clean(), "two runs over the same input must be byte-identical: %s", diff)
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, []*model.Class) ([]GeneratedFile, error) {
	return nil, errors.New("disk full")
}

func TestGenerateReportsEmitFailure(t *testing.T) {
	_, report, err := NewGenerator(testConfig(), nil).Generate(context.Background(), buildModel(t, orderService()), failingEmitter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotNil(t, report)
}
