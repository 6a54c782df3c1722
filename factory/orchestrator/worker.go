package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/processes"
	"github.com/bsmider/reactorgen/factory/utils"
	"github.com/bsmider/reactorgen/logger"
)

// CompileResult is the outcome of compiling one schema file.
type CompileResult struct {
	File       string // path relative to the source dir
	Descriptor string // descriptor set written by protoc
	Services   []string
	Worker     string
	Duration   time.Duration
	Err        error
}

// OK reports whether the file compiled and its descriptor was read back.
func (r CompileResult) OK() bool { return r.Err == nil }

// Worker runs one protoc process at a time.
type Worker struct {
	id       string
	settings *Settings
	log      *zap.SugaredLogger
}

func NewWorker(settings *Settings, log *zap.SugaredLogger) *Worker {
	id := fmt.Sprintf("protoc-%.4s", uuid.New().String())
	return &Worker{
		id:       id,
		settings: settings,
		log:      logger.ChildLogger(log, "worker", id),
	}
}

func (w *Worker) ID() string { return w.id }

// Command builds the protoc invocation for file, relative to sourceDir.
// Relative paths are resolved against the working directory.
func (w *Worker) Command(sourceDir, file string, timeout time.Duration) processes.Command {
	s := w.settings
	args := []string{
		"--proto_path=" + sourceDir,
		"--descriptor_set_out=" + utils.DescriptorPath(s.DescriptorDir, file),
		"--include_imports",
	}
	if s.PluginPath != "" && s.PluginName != "" {
		args = append(args,
			fmt.Sprintf("--plugin=protoc-gen-%s=%s", s.PluginName, s.PluginPath),
			fmt.Sprintf("--%s_out=%s", s.PluginName, s.GeneratedDir),
		)
	}
	args = append(args, s.ExtraArgs...)
	args = append(args, filepath.Join(sourceDir, file))

	return processes.Command{
		Name:    processes.ExecutableName(s.Protoc),
		Args:    args,
		Timeout: timeout,
	}
}

// Compile runs protoc on a single file and reads back its descriptor set.
func (w *Worker) Compile(ctx context.Context, sourceDir, file string, timeout time.Duration) CompileResult {
	res := CompileResult{
		File:       file,
		Descriptor: utils.DescriptorPath(w.settings.DescriptorDir, file),
		Worker:     w.id,
	}
	log := logger.ChildLogger(w.log, logger.FieldFile, file)

	// protoc does not create the parent of --descriptor_set_out.
	if err := os.MkdirAll(filepath.Dir(res.Descriptor), 0755); err != nil {
		res.Err = errors.Wrapf(err, "failed to create %s", filepath.Dir(res.Descriptor))
		return res
	}

	start := time.Now()
	_, err := processes.Run(ctx, w.Command(sourceDir, file, timeout), log)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}

	set, err := utils.ReadDescriptorSet(res.Descriptor)
	if err != nil {
		res.Err = err
		return res
	}
	res.Services = utils.ServiceNames(set)
	log.Debugw("Compiled schema",
		logger.FieldCount, len(res.Services),
		logger.FieldDurationMS, res.Duration.Milliseconds())
	return res
}
