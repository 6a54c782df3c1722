package factory

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/render"
	"github.com/bsmider/reactorgen/logger"
)

// FileEmitter renders classes as Go and writes them to
// <OutputDir>/<package path>/<SimpleName>.go.
type FileEmitter struct {
	OutputDir string
	renderer  render.Renderer
	log       *zap.SugaredLogger
}

func NewFileEmitter(outputDir string, log *zap.SugaredLogger) *FileEmitter {
	if log == nil {
		log = logger.ComponentLogger("emitter")
	}
	return &FileEmitter{OutputDir: outputDir, log: log}
}

// RelativePath is where a class lands under the output directory.
func RelativePath(c *model.Class) string {
	return filepath.Join(filepath.FromSlash(c.Package()), render.FileName(c))
}

// Emit writes every class. The first failure aborts the remaining writes.
func (e *FileEmitter) Emit(ctx context.Context, classes []*model.Class) ([]GeneratedFile, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	files := make([]GeneratedFile, 0, len(classes))
	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		src, err := e.renderer.Render(c)
		if err != nil {
			return files, err
		}

		rel := RelativePath(c)
		path := filepath.Join(e.OutputDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return files, errors.Wrapf(err, "failed to create directory for %s", c.Name)
		}
		if err := os.WriteFile(path, src, 0644); err != nil {
			return files, errors.Wrapf(err, "failed to write output file %s", path)
		}

		e.log.Debugw("Wrote generated file", logger.FieldClass, c.Name, logger.FieldPath, path)
		files = append(files, GeneratedFile{
			Class:        c.Name,
			Package:      c.Package(),
			FullPath:     path,
			RelativePath: rel,
			Size:         len(src),
		})
	}
	e.log.Infow("Emitted generated files", logger.FieldCount, len(files), logger.FieldPath, e.OutputDir)
	return files, nil
}
