package utils

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
)

// ImportInfo represents an imported package
type ImportInfo struct {
	Name string // Package alias (or empty if default)
	Path string // Full import path
}

// ParseOptions controls how stub sources become model classes.
type ParseOptions struct {
	// ImportPath is the Go import path of the package being parsed.
	ImportPath string
	// IsOuter reports whether a type declared in a file owns the other types
	// declared in the same file. The first matching type in a file wins.
	IsOuter func(simpleName string) bool
}

// ParsedStubFile contains the declarations extracted from one Go source file
type ParsedStubFile struct {
	Path        string
	PackageName string
	Imports     []ImportInfo
	Classes     []*model.Class
	// receiver simple name -> methods declared in this file
	methods map[string][]*model.Method
}

// ParseStubFile parses a Go source file holding generated stub declarations.
func ParseStubFile(filePath string, opts ParseOptions) (*ParsedStubFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", filePath)
	}
	return convertFile(filePath, file, opts), nil
}

// ParseStubDir parses every non-test Go file of a directory as one package
// and returns its top-level classes, methods attached to their receivers.
func ParseStubDir(dir string, opts ParseOptions) ([]*model.Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read stub dir %s", dir)
	}

	var files []*ParsedStubFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := ParseStubFile(filepath.Join(dir, name), opts)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return LinkFiles(files), nil
}

// LinkFiles attaches methods to their receiver classes across the files of a
// package and returns the top-level classes in file then declaration order.
func LinkFiles(files []*ParsedStubFile) []*model.Class {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	bySimple := make(map[string]*model.Class)
	var top []*model.Class
	for _, f := range files {
		for _, c := range f.Classes {
			bySimple[c.SimpleName()] = c
			for _, n := range c.Nested {
				bySimple[n.SimpleName()] = n
			}
			top = append(top, c)
		}
	}
	for _, f := range files {
		recvs := make([]string, 0, len(f.methods))
		for r := range f.methods {
			recvs = append(recvs, r)
		}
		sort.Strings(recvs)
		for _, r := range recvs {
			if c, ok := bySimple[r]; ok {
				c.Methods = append(c.Methods, f.methods[r]...)
			}
		}
	}
	return top
}

func convertFile(path string, file *ast.File, opts ParseOptions) *ParsedStubFile {
	result := &ParsedStubFile{
		Path:        path,
		PackageName: file.Name.Name,
		methods:     make(map[string][]*model.Method),
	}

	// Extract imports
	for _, imp := range file.Imports {
		importPath, _ := strconv.Unquote(imp.Path.Value)
		name := ""
		if imp.Name != nil {
			name = imp.Name.Name
		}
		result.Imports = append(result.Imports, ImportInfo{Name: name, Path: importPath})
	}

	r := &typeResolver{pkg: opts.ImportPath, aliases: importAliases(result.Imports)}

	var declared []*model.Class
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				c := r.class(ts)
				c.SourceFile = path
				declared = append(declared, c)
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}
			recv := receiverName(d.Recv.List[0].Type)
			if recv == "" {
				continue
			}
			result.methods[recv] = append(result.methods[recv], r.method(d.Name.Name, d.Type))
		}
	}

	// The owning type, if any, takes every other declaration of the file.
	var outer *model.Class
	if opts.IsOuter != nil {
		for _, c := range declared {
			if opts.IsOuter(c.SimpleName()) {
				outer = c
				break
			}
		}
	}
	for _, c := range declared {
		switch {
		case outer == nil || c == outer:
			result.Classes = append(result.Classes, c)
		default:
			c.Outer = outer.Name
			outer.Nested = append(outer.Nested, c)
		}
	}
	return result
}

// importAliases maps the name a file uses for each import to its path.
// Unnamed imports use the last path element, skipping major version suffixes.
func importAliases(imports []ImportInfo) map[string]string {
	out := make(map[string]string, len(imports))
	for _, imp := range imports {
		name := imp.Name
		if name == "_" || name == "." {
			continue
		}
		if name == "" {
			name = DefaultPackageName(imp.Path)
		}
		out[name] = imp.Path
	}
	return out
}

// DefaultPackageName guesses the package name of an import path the way
// goimports does: last element, minus a major version suffix, a "go-" prefix
// and anything from the first non-identifier rune.
func DefaultPackageName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && len(name) > 1 && name[0] == 'v' && isDigits(name[1:]) {
		name = parts[len(parts)-2]
	}
	name = strings.TrimPrefix(name, "go-")
	if i := strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	}); i >= 0 {
		name = name[:i]
	}
	return name
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

type typeResolver struct {
	pkg     string
	aliases map[string]string
}

func (r *typeResolver) class(ts *ast.TypeSpec) *model.Class {
	c := &model.Class{Name: model.Qualify(r.pkg, ts.Name.Name)}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		c.Kind = model.KindStruct
		for _, f := range t.Fields.List {
			ref := r.typeRef(f.Type)
			if len(f.Names) == 0 {
				c.Supertypes = append(c.Supertypes, ref)
				continue
			}
			for _, n := range f.Names {
				c.Fields = append(c.Fields, model.Field{Name: n.Name, Type: ref})
			}
		}
	case *ast.InterfaceType:
		c.Kind = model.KindInterface
		for _, m := range t.Methods.List {
			ft, ok := m.Type.(*ast.FuncType)
			if !ok || len(m.Names) == 0 {
				// embedded interface or type-set term
				c.Supertypes = append(c.Supertypes, r.typeRef(m.Type))
				continue
			}
			for _, n := range m.Names {
				c.Methods = append(c.Methods, r.method(n.Name, ft))
			}
		}
	default:
		// named or aliased types keep their underlying type as the only supertype
		if ts.Assign.IsValid() {
			c.Supertypes = append(c.Supertypes, r.typeRef(ts.Type))
		}
	}
	return c
}

func (r *typeResolver) method(name string, ft *ast.FuncType) *model.Method {
	m := &model.Method{Name: name, Returns: model.Void}
	idx := 0
	for _, p := range ft.Params.List {
		ref := r.typeRef(p.Type)
		if len(p.Names) == 0 {
			m.Params = append(m.Params, model.Param{Name: "arg" + strconv.Itoa(idx), Type: ref})
			idx++
			continue
		}
		for _, n := range p.Names {
			m.Params = append(m.Params, model.Param{Name: n.Name, Type: ref})
			idx++
		}
	}
	// Only the first result is modelled; (T, error) pairs count as returning T.
	if ft.Results != nil && len(ft.Results.List) > 0 {
		m.Returns = r.typeRef(ft.Results.List[0].Type)
	}
	return m
}

// typeRef converts a type expression into a qualified reference.
func (r *typeResolver) typeRef(expr ast.Expr) model.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		if types.Universe.Lookup(t.Name) != nil {
			return model.Ref(t.Name)
		}
		return model.Ref(model.Qualify(r.pkg, t.Name))
	case *ast.StarExpr:
		ref := r.typeRef(t.X)
		ref.Pointer = true
		return ref
	case *ast.SelectorExpr:
		pkgIdent, ok := t.X.(*ast.Ident)
		if !ok {
			return model.Ref(t.Sel.Name)
		}
		path, ok := r.aliases[pkgIdent.Name]
		if !ok {
			path = pkgIdent.Name
		}
		return model.Ref(model.Qualify(path, t.Sel.Name))
	case *ast.IndexExpr:
		ref := r.typeRef(t.X)
		ref.Args = []model.TypeRef{r.typeRef(t.Index)}
		return ref
	case *ast.IndexListExpr:
		ref := r.typeRef(t.X)
		for _, idx := range t.Indices {
			ref.Args = append(ref.Args, r.typeRef(idx))
		}
		return ref
	case *ast.ArrayType:
		return model.Ref("[]", r.typeRef(t.Elt))
	case *ast.MapType:
		return model.Ref("map", r.typeRef(t.Key), r.typeRef(t.Value))
	case *ast.Ellipsis:
		return model.Ref("...", r.typeRef(t.Elt))
	case *ast.ParenExpr:
		return r.typeRef(t.X)
	case *ast.FuncType:
		return model.Ref("func")
	case *ast.InterfaceType:
		return model.Ref("any")
	case *ast.ChanType:
		return model.Ref("chan", r.typeRef(t.Value))
	default:
		return model.Ref("invalid")
	}
}

// receiverName extracts the type name of a method receiver, handling
// pointers and generic receivers.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}
