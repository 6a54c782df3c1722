package factory

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
)

// LoadStubModel builds the input model from a directory of stub sources.
// With an import path the directory is parsed directly as that package;
// without one it is loaded through go/packages, which needs it inside a module.
func LoadStubModel(ctx context.Context, dir, importPath string) (*model.Model, error) {
	if err := checkGoSources(dir); err != nil {
		return nil, err
	}
	opts := utils.ParseOptions{ImportPath: importPath, IsOuter: IsServiceName}

	var (
		classes []*model.Class
		err     error
	)
	if importPath != "" {
		classes, err = utils.ParseStubDir(dir, opts)
	} else {
		classes, err = utils.LoadStubPackages(ctx, dir, opts)
	}
	if err != nil {
		return nil, err
	}

	m, err := model.New(classes...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build model from %s", dir)
	}
	return m, nil
}

// checkGoSources fails when dir holds no Go sources, which happens when the
// protoc plugin generates another language.
func checkGoSources(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "stub directory %s: %v", dir, err)
	}
	var others []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) == ".go" && !strings.HasSuffix(name, "_test.go") {
			return nil
		}
		others = append(others, name)
	}
	err = errors.Wrapf(errors.ErrNotFound, "no Go stub sources in %s", dir)
	if len(others) > 0 {
		err = errors.WithDetailf(err, "found %d other files, e.g. %s", len(others), others[0])
	}
	return errors.WithHint(err, "the protoc plugin must generate Go stubs; check plugin.name and stub_dir")
}
