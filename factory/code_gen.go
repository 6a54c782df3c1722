package factory

import (
	"context"
	"go/token"
	"strings"

	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/logger"
)

// CodeGenConfig contains configuration for code generation
type CodeGenConfig struct {
	BasePackage  string // Import path generated classes live under (configs go to <base>/config)
	ServiceLabel string // Service name recorded on every config class
	ChannelLabel string // Name of the connection bean config factories take
	OutputDir    string // Directory where generated files will be written
}

// DefaultCodeGenConfig returns the default configuration for code generation
func DefaultCodeGenConfig() CodeGenConfig {
	return CodeGenConfig{
		ServiceLabel: "example-grpc-0",
		ChannelLabel: "authGrpcChannel",
		OutputDir:    "./generated",
	}
}

// Validate checks the settings synthesis depends on.
func (c CodeGenConfig) Validate() error {
	if strings.TrimSpace(c.BasePackage) == "" {
		return errors.WithHint(errors.NewInvalidConfigError("base package is required"),
			"set base_package to the import path generated code should live under")
	}
	if !token.IsIdentifier(ChannelParamName(c.ChannelLabel)) {
		return errors.NewInvalidConfigError("channel label %q does not form an identifier", c.ChannelLabel)
	}
	return nil
}

// SynthesisReport summarizes one synthesis pass.
type SynthesisReport struct {
	Services  int
	Clients   []string
	Configs   []string
	Methods   int // synthesized client methods
	Factories int // synthesized config factory methods
	Skipped   []Skipped
}

// Generator runs the synthesis core.
type Generator struct {
	cfg CodeGenConfig
	log *zap.SugaredLogger
}

// NewGenerator creates a generator; a nil log uses the "factory" component logger.
func NewGenerator(cfg CodeGenConfig, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = logger.ComponentLogger("factory")
	}
	return &Generator{cfg: cfg, log: log}
}

// Synthesize runs one pass over in and returns the enlarged model. Per-service
// and per-method failures end up in the report; only a missing model or an
// unusable configuration is returned as an error.
func (g *Generator) Synthesize(in *model.Model) (*model.Model, *SynthesisReport, error) {
	if in == nil {
		return nil, nil, ErrNoModel
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	seed := model.NewBuilder(in)
	if err := withBuiltins(seed); err != nil {
		return nil, nil, errors.Wrap(err, "failed to seed runtime declarations")
	}
	base := seed.Build()

	matcher := NewMatcher(base, g.log.Named("matcher"))
	clients := NewClientSynthesizer(g.cfg, matcher, g.log.Named("client"))
	configs := NewConfigSynthesizer(g.cfg, matcher, g.log.Named("config"))

	out := model.NewBuilder(base)
	report := &SynthesisReport{}

	for _, svc := range matcher.Services() {
		report.Services++
		log := logger.ChildLogger(g.log, logger.FieldService, svc.Class.Name)

		stub, err := matcher.LocateStub(svc)
		if err != nil {
			log.Warnw("Skipping service", logger.FieldError, err)
			report.Skipped = append(report.Skipped, Skipped{Service: svc.Class.Name, Err: err})
			continue
		}
		log.Debugw("Located stub", logger.FieldStub, stub.Class.Name, logger.FieldVariant, stub.Variant.String())

		client, skipped := clients.Synthesize(stub)
		report.Skipped = append(report.Skipped, skipped...)
		if client != nil {
			if err := out.Add(client); err != nil {
				log.Warnw("Dropping client", logger.FieldClass, client.Name, logger.FieldError, err)
				report.Skipped = append(report.Skipped, Skipped{Service: svc.Class.Name, Err: err})
			} else {
				report.Clients = append(report.Clients, client.Name)
				report.Methods += len(client.Methods)
			}
		}

		config := configs.Synthesize(svc)
		if err := out.Add(config); err != nil {
			log.Warnw("Dropping config", logger.FieldClass, config.Name, logger.FieldError, err)
			report.Skipped = append(report.Skipped, Skipped{Service: svc.Class.Name, Err: err})
			continue
		}
		report.Configs = append(report.Configs, config.Name)
		report.Factories += len(config.Methods)
	}

	g.log.Infow("Synthesis finished",
		"services", report.Services,
		"clients", len(report.Clients),
		"configs", len(report.Configs),
		"skipped", len(report.Skipped))
	return out.Build(), report, nil
}

// Generate synthesizes, selects the output classes and hands them to emitter.
func (g *Generator) Generate(ctx context.Context, in *model.Model, emitter Emitter) ([]GeneratedFile, *SynthesisReport, error) {
	out, report, err := g.Synthesize(in)
	if err != nil {
		return nil, nil, err
	}
	selected := SelectOutput(out, g.cfg.BasePackage)
	files, err := emitter.Emit(ctx, selected)
	if err != nil {
		return nil, report, errors.Wrap(err, "failed to emit generated classes")
	}
	return files, report, nil
}
