package utils

import (
	"context"

	"golang.org/x/tools/go/packages"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
)

// LoadStubPackages loads Go packages through the build system and converts
// their syntax into model classes. Import paths come from the packages
// themselves, so ParseOptions.ImportPath is ignored.
func LoadStubPackages(ctx context.Context, dir string, opts ParseOptions, patterns ...string) ([]*model.Class, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
		Tests:   false,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages in %s", dir)
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found in %s", dir)
	}

	var classes []*model.Class
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Newf("package %s: %v", pkg.PkgPath, pkg.Errors[0])
		}
		pkgOpts := opts
		pkgOpts.ImportPath = pkg.PkgPath

		files := make([]*ParsedStubFile, 0, len(pkg.Syntax))
		for i, f := range pkg.Syntax {
			path := pkg.PkgPath
			if i < len(pkg.CompiledGoFiles) {
				path = pkg.CompiledGoFiles[i]
			}
			files = append(files, convertFile(path, f, pkgOpts))
		}
		classes = append(classes, LinkFiles(files)...)
	}
	return classes, nil
}
