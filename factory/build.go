package factory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/orchestrator"
	"github.com/bsmider/reactorgen/factory/plugin"
	"github.com/bsmider/reactorgen/logger"
)

// BuildConfig wires the whole pipeline: schemas in, reactive classes out.
type BuildConfig struct {
	CodeGen        CodeGenConfig
	SourceDir      string // where *.proto files live
	StubDir        string // stub sources to synthesize from; defaults to Protoc.GeneratedDir
	StubImportPath string // import path of StubDir; empty loads it through go/packages
	Protoc         orchestrator.Settings
	Plugin         *plugin.Settings // nil runs protoc without a code generator plugin
}

// BuildResult is everything one Build run produced.
type BuildResult struct {
	RunID   string
	Schemas SchemaSummary
	Files   []GeneratedFile
	Report  *SynthesisReport
}

// Build compiles the schemas, loads the resulting stubs and emits the
// reactive clients and config classes for them. A source directory without
// schemas ends the run early and generates nothing.
func Build(ctx context.Context, cfg BuildConfig, log *zap.SugaredLogger) (*BuildResult, error) {
	if log == nil {
		log = logger.ComponentLogger("build")
	}
	if err := cfg.CodeGen.Validate(); err != nil {
		return nil, err
	}

	result := &BuildResult{RunID: uuid.New().String()}
	log = logger.ChildLogger(log, logger.FieldRunID, result.RunID)

	if cfg.Plugin != nil {
		path, err := plugin.NewResolver(*cfg.Plugin, log.Named("plugin")).Resolve(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve protoc plugin")
		}
		cfg.Protoc.PluginName = cfg.Plugin.Name
		if cfg.Protoc.PluginName == "" {
			cfg.Protoc.PluginName = plugin.DefaultName
		}
		cfg.Protoc.PluginPath = path
	}

	compiled, err := orchestrator.NewOrchestrator(cfg.Protoc, log.Named("orchestrator")).CompileAll(ctx, cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	result.Schemas = SummarizeSchemas(compiled)
	if result.Schemas.Files == 0 {
		log.Infow("No schema files found, nothing to generate", logger.FieldPath, cfg.SourceDir)
		return result, nil
	}
	for _, svc := range result.Schemas.Services {
		log.Infow("Found service", logger.FieldService, svc)
	}
	if n := len(result.Schemas.Failed); n > 0 {
		return result, errors.WithDetailf(
			errors.Newf("%d of %d schema files failed to compile", n, result.Schemas.Files),
			"failed: %v", result.Schemas.Failed)
	}

	stubDir := cfg.StubDir
	if stubDir == "" {
		stubDir = cfg.Protoc.GeneratedDir
	}
	if stubDir == "" {
		return result, errors.NewInvalidConfigError("no stub directory: set stub_dir or generated_dir")
	}
	in, err := LoadStubModel(ctx, stubDir, cfg.StubImportPath)
	if err != nil {
		return result, err
	}

	gen := NewGenerator(cfg.CodeGen, log.Named("factory"))
	files, report, err := gen.Generate(ctx, in, NewFileEmitter(cfg.CodeGen.OutputDir, log.Named("emit")))
	result.Files = files
	result.Report = report
	if err != nil {
		return result, err
	}

	log.Infow("Build finished",
		logger.FieldCount, len(files),
		"schemas", result.Schemas.Files,
		"services", len(result.Schemas.Services))
	return result, nil
}
