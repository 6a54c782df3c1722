// Package render prints synthesized model classes as Go source.
//
// Classes become structs, methods become pointer-receiver methods with
// exported names, and annotations become //di: directives in the doc comment.
// A RequiredArgsConstructor annotation adds a New<Class> constructor taking
// every field.
package render

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
)

// Header starts every rendered file.
const Header = "// Code generated by reactorgen. DO NOT EDIT."

const constructorAnnotation = "RequiredArgsConstructor"

// Renderer turns classes into formatted Go files. The zero value is ready to use.
type Renderer struct{}

// FileName is the name of the file a class is rendered to.
func FileName(c *model.Class) string {
	return c.SimpleName() + ".go"
}

// Render returns the formatted Go file for c.
func (r *Renderer) Render(c *model.Class) ([]byte, error) {
	pkg := c.Package()
	if pkg == "" {
		return nil, errors.Newf("class %s has no package", c.Name)
	}

	imps := newImportSet(pkg)
	for _, f := range c.Fields {
		imps.addRef(f.Type)
	}
	for _, m := range c.Methods {
		for _, p := range m.Params {
			imps.addRef(p.Type)
		}
		if !m.Returns.IsVoid() {
			imps.addRef(m.Returns)
		}
		if m.Body != nil {
			collect(imps, m.Body)
		}
	}
	imps.resolve()

	w := &exprWriter{imports: imps, recv: receiverName(c)}
	simple := c.SimpleName()

	var buf bytes.Buffer
	buf.WriteString(Header + "\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", utils.DefaultPackageName(pkg))

	if paths := imps.paths(); len(paths) > 0 {
		buf.WriteString("import (\n")
		for _, p := range paths {
			if name := imps.name(p); name != utils.DefaultPackageName(p) {
				fmt.Fprintf(&buf, "\t%s %q\n", name, p)
			} else {
				fmt.Fprintf(&buf, "\t%q\n", p)
			}
		}
		buf.WriteString(")\n\n")
	}

	fmt.Fprintf(&buf, "// %s is generated by reactorgen.\n", simple)
	writeDirectives(&buf, c.Annotations)
	if len(c.Fields) == 0 {
		fmt.Fprintf(&buf, "type %s struct{}\n\n", simple)
	} else {
		fmt.Fprintf(&buf, "type %s struct {\n", simple)
		for _, f := range c.Fields {
			fmt.Fprintf(&buf, "\t%s %s\n", f.Name, node(w.typeExpr(f.Type)))
		}
		buf.WriteString("}\n\n")
	}

	if c.HasAnnotation(constructorAnnotation) {
		writeConstructor(&buf, w, c)
	}

	for _, m := range c.Methods {
		if err := writeMethod(&buf, w, c, m); err != nil {
			return nil, errors.Wrapf(err, "class %s: method %s", c.Name, m.Name)
		}
	}

	out, err := imports.Process(FileName(c), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to format %s", c.Name)
	}
	return out, nil
}

func writeConstructor(buf *bytes.Buffer, w *exprWriter, c *model.Class) {
	simple := c.SimpleName()
	params := make([]string, len(c.Fields))
	inits := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		params[i] = f.Name + " " + node(w.typeExpr(f.Type))
		inits[i] = f.Name + ": " + f.Name
	}
	fmt.Fprintf(buf, "// New%s creates a %s from its dependencies.\n", simple, simple)
	fmt.Fprintf(buf, "func New%s(%s) *%s {\n\treturn &%s{%s}\n}\n\n",
		simple, strings.Join(params, ", "), simple, simple, strings.Join(inits, ", "))
}

func writeMethod(buf *bytes.Buffer, w *exprWriter, c *model.Class, m *model.Method) error {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name + " " + node(w.typeExpr(p.Type))
	}
	result := ""
	if !m.Returns.IsVoid() {
		result = " " + node(w.typeExpr(m.Returns))
	}

	writeDirectives(buf, m.Annotations)
	fmt.Fprintf(buf, "func (%s *%s) %s(%s)%s {\n",
		w.recv, c.SimpleName(), utils.Capitalize(m.Name), strings.Join(params, ", "), result)
	if m.Body != nil {
		stmt, err := w.stmt(m.Body)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "\t%s\n", node(stmt))
	} else if !m.Returns.IsVoid() {
		buf.WriteString("\tpanic(\"not implemented\")\n")
	}
	buf.WriteString("}\n\n")
	return nil
}

// writeDirectives renders annotations as //di:<kebab-name> [key=value ...].
func writeDirectives(buf *bytes.Buffer, annotations []model.Annotation) {
	for _, a := range annotations {
		buf.WriteString("//di:" + strings.ReplaceAll(utils.PascalToSnake(a.Name), "_", "-"))
		keys := make([]string, 0, len(a.Values))
		for k := range a.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := a.Values[k]
			if strings.ContainsAny(v, " \t\"") {
				v = strconv.Quote(v)
			}
			buf.WriteString(" " + k + "=" + v)
		}
		buf.WriteByte('\n')
	}
}

// receiverName is the lower-cased first letter of the class, or "r" when a
// parameter already uses it.
func receiverName(c *model.Class) string {
	name := strings.ToLower(c.SimpleName()[:1])
	for _, m := range c.Methods {
		for _, p := range m.Params {
			if p.Name == name {
				return "r"
			}
		}
	}
	return name
}

func node(n ast.Node) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, token.NewFileSet(), n)
	return buf.String()
}
