// Package orchestrator compiles schema files with protoc, one process per
// file, on a bounded pool of workers.
package orchestrator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/logger"
)

// SchemaExt is the extension of compiled schema files.
const SchemaExt = ".proto"

// Settings configures protoc invocations.
type Settings struct {
	Protoc        string   // protoc executable, resolved through PATH
	ExtraArgs     []string // appended before the schema file
	PluginName    string   // protoc-gen-<name>; empty skips code generation
	PluginPath    string
	DescriptorDir string
	GeneratedDir  string
	Workers       int
	Timeout       time.Duration
	Retries       int // extra attempts after a timeout
}

// DefaultWorkers leaves one CPU for the caller.
func DefaultWorkers() int {
	return max(2, runtime.NumCPU()-1)
}

type Orchestrator struct {
	settings Settings
	pool     *WorkerPool
	log      *zap.SugaredLogger
}

func NewOrchestrator(settings Settings, log *zap.SugaredLogger) *Orchestrator {
	if log == nil {
		log = logger.ComponentLogger("orchestrator")
	}
	if settings.Protoc == "" {
		settings.Protoc = "protoc"
	}
	if settings.Workers <= 0 {
		settings.Workers = DefaultWorkers()
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 60 * time.Second
	}

	o := &Orchestrator{
		settings: settings,
		pool:     NewWorkerPool(nil, settings.Timeout, settings.Retries),
		log:      log,
	}
	for i := 0; i < settings.Workers; i++ {
		o.pool.Add(NewWorker(&o.settings, log))
	}
	return o
}

// FindSchemas lists schema files under dir, relative to it and sorted.
func FindSchemas(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "schema source directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("schema source %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != SchemaExt {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// CompileAll compiles every schema file under sourceDir. It returns one
// result per file in path order; a failed file never cancels the others.
// The error is reserved for problems before any compilation starts.
func (o *Orchestrator) CompileAll(ctx context.Context, sourceDir string) ([]CompileResult, error) {
	files, err := FindSchemas(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	for _, dir := range []string{o.settings.DescriptorDir, o.settings.GeneratedDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	o.log.Infow("Compiling schemas",
		logger.FieldCount, len(files),
		"workers", o.pool.Len())

	results := make([]CompileResult, len(files))
	var g errgroup.Group
	g.SetLimit(o.pool.Len())
	for i, file := range files {
		g.Go(func() error {
			results[i] = o.compile(ctx, sourceDir, file)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			o.log.Errorw("Schema failed to compile",
				logger.FieldFile, r.File,
				logger.FieldError, r.Err)
		}
	}
	if failed > 0 {
		o.log.Warnw("Some schemas failed", logger.FieldCount, failed)
	}
	return results, nil
}

// compile retries timed-out attempts on the next worker.
func (o *Orchestrator) compile(ctx context.Context, sourceDir, file string) CompileResult {
	var res CompileResult
	for attempt := 0; attempt <= o.pool.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return CompileResult{File: file, Err: err}
		}
		worker := o.pool.SelectWorker()
		res = worker.Compile(ctx, sourceDir, file, o.pool.timeout)
		if !errors.IsTimeoutError(res.Err) {
			return res
		}
		o.log.Warnw("Schema compile timed out",
			logger.FieldFile, file,
			"attempt", attempt,
			"worker", worker.ID())
	}
	return res
}
