package render

import (
	"go/ast"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
)

// bridgeFunc takes a request and a callback method; with no request the
// method is adapted by noRequestFunc so its arity matches.
const (
	bridgeFunc    = "bridgeSingleCallback"
	noRequestFunc = "NoRequest"
)

type exprWriter struct {
	imports *importSet
	recv    string
}

// typeExpr converts a reference into a Go type expression.
func (w *exprWriter) typeExpr(t model.TypeRef) ast.Expr {
	var x ast.Expr
	switch t.Name {
	case "[]":
		x = &ast.ArrayType{Elt: w.typeExpr(arg(t, 0))}
	case "map":
		x = &ast.MapType{Key: w.typeExpr(arg(t, 0)), Value: w.typeExpr(arg(t, 1))}
	default:
		x = w.named(t.Package(), t.SimpleName())
		switch len(t.Args) {
		case 0:
		case 1:
			x = &ast.IndexExpr{X: x, Index: w.typeExpr(t.Args[0])}
		default:
			idx := make([]ast.Expr, len(t.Args))
			for i, a := range t.Args {
				idx[i] = w.typeExpr(a)
			}
			x = &ast.IndexListExpr{X: x, Indices: idx}
		}
	}
	if t.Pointer {
		x = &ast.StarExpr{X: x}
	}
	return x
}

func arg(t model.TypeRef, i int) model.TypeRef {
	if i < len(t.Args) {
		return t.Args[i]
	}
	return model.Ref("any")
}

func (w *exprWriter) named(pkg, name string) ast.Expr {
	if q := w.imports.name(pkg); q != "" {
		return &ast.SelectorExpr{X: ast.NewIdent(q), Sel: ast.NewIdent(name)}
	}
	return ast.NewIdent(name)
}

// stmt converts a method body.
func (w *exprWriter) stmt(e model.Expr) (ast.Stmt, error) {
	if r, ok := e.(model.Return); ok {
		x, err := w.expr(r.Value, model.TypeRef{})
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Results: []ast.Expr{x}}, nil
	}
	x, err := w.expr(e, model.TypeRef{})
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x}, nil
}

// expr converts an expression; result is the type a lambda must return.
func (w *exprWriter) expr(e model.Expr, result model.TypeRef) (ast.Expr, error) {
	switch x := e.(type) {
	case model.Ident:
		return ast.NewIdent(x.Name), nil
	case model.Nil:
		return ast.NewIdent("nil"), nil
	case model.FieldRead:
		return &ast.SelectorExpr{X: ast.NewIdent(w.recv), Sel: ast.NewIdent(x.Field)}, nil
	case model.TypeAccess:
		return w.typeExpr(x.Type), nil
	case model.MethodRef:
		return w.methodRef(x)
	case model.Call:
		return w.call(x)
	case model.Lambda:
		return w.lambda(x, result)
	case model.Callback:
		return w.callback(x)
	case model.Return:
		return nil, errors.New("return is only valid as a method body")
	default:
		return nil, errors.Newf("unsupported expression %T", e)
	}
}

// methodRef renders Type::m as new(Type).m and x::m as the method value x.m.
func (w *exprWriter) methodRef(x model.MethodRef) (ast.Expr, error) {
	if ta, ok := x.Target.(model.TypeAccess); ok {
		return &ast.SelectorExpr{
			X:   &ast.CallExpr{Fun: ast.NewIdent("new"), Args: []ast.Expr{w.typeExpr(ta.Type)}},
			Sel: ast.NewIdent(x.Method),
		}, nil
	}
	target, err := w.expr(x.Target, model.TypeRef{})
	if err != nil {
		return nil, err
	}
	return &ast.SelectorExpr{X: target, Sel: ast.NewIdent(x.Method)}, nil
}

// call renders static calls as package functions of the target type's
// package. Instance calls producing a generic type are lowered the same way
// with the receiver as first argument, since Go methods take no type
// parameters.
func (w *exprWriter) call(x model.Call) (ast.Expr, error) {
	args := make([]ast.Expr, 0, len(x.Args)+1)
	var fun ast.Expr

	switch target := x.Target.(type) {
	case model.TypeAccess:
		fun = w.named(target.Type.Package(), utils.Capitalize(x.Func))
	case nil:
		fun = ast.NewIdent(x.Func)
	default:
		recv, err := w.expr(target, model.TypeRef{})
		if err != nil {
			return nil, err
		}
		if len(x.Result.Args) > 0 {
			fun = w.named(x.Result.Package(), utils.Capitalize(x.Func))
			args = append(args, recv)
		} else {
			fun = &ast.SelectorExpr{X: recv, Sel: ast.NewIdent(utils.Capitalize(x.Func))}
		}
	}

	for i, a := range x.Args {
		arg, err := w.expr(a, x.Result)
		if err != nil {
			return nil, err
		}
		if x.Func == bridgeFunc && i == 1 && isNil(x.Args[0]) && isMethodRef(a) {
			if ta, ok := x.Target.(model.TypeAccess); ok {
				arg = &ast.CallExpr{Fun: w.named(ta.Type.Package(), noRequestFunc), Args: []ast.Expr{arg}}
			}
		}
		args = append(args, arg)
	}
	return &ast.CallExpr{Fun: fun, Args: args}, nil
}

func isNil(e model.Expr) bool {
	_, ok := e.(model.Nil)
	return ok
}

func isMethodRef(e model.Expr) bool {
	_, ok := e.(model.MethodRef)
	return ok
}

func (w *exprWriter) lambda(x model.Lambda, result model.TypeRef) (ast.Expr, error) {
	body, err := w.expr(x.Body, result)
	if err != nil {
		return nil, err
	}
	ft := &ast.FuncType{
		Params: &ast.FieldList{List: []*ast.Field{{
			Names: []*ast.Ident{ast.NewIdent(x.Param.Name)},
			Type:  w.typeExpr(x.Param.Type),
		}}},
	}
	if !result.IsVoid() {
		ft.Results = &ast.FieldList{List: []*ast.Field{{Type: w.typeExpr(result)}}}
	}
	return &ast.FuncLit{
		Type: ft,
		Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{body}}}},
	}, nil
}

// callback renders an adapter literal: func(p1 T1, p2 T2) { body }.
func (w *exprWriter) callback(x model.Callback) (ast.Expr, error) {
	body, err := w.call(x.Body)
	if err != nil {
		return nil, err
	}
	params := make([]*ast.Field, len(x.Params))
	for i, p := range x.Params {
		params[i] = &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(p.Name)},
			Type:  w.typeExpr(p.Type),
		}
	}
	return &ast.FuncLit{
		Type: &ast.FuncType{Params: &ast.FieldList{List: params}},
		Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ExprStmt{X: body}}},
	}, nil
}

// collect registers every package an expression refers to.
func collect(s *importSet, e model.Expr) {
	switch x := e.(type) {
	case model.Return:
		collect(s, x.Value)
	case model.TypeAccess:
		s.addRef(x.Type)
	case model.MethodRef:
		collect(s, x.Target)
	case model.Call:
		collect(s, x.Target)
		if _, static := x.Target.(model.TypeAccess); !static && x.Target != nil && len(x.Result.Args) > 0 {
			s.add(x.Result.Package())
		}
		if x.Func == bridgeFunc && len(x.Args) > 1 && isNil(x.Args[0]) && isMethodRef(x.Args[1]) {
			if ta, ok := x.Target.(model.TypeAccess); ok {
				s.add(ta.Type.Package())
			}
		}
		for _, a := range x.Args {
			collect(s, a)
			if _, ok := a.(model.Lambda); ok {
				s.addRef(x.Result)
			}
		}
	case model.Lambda:
		s.addRef(x.Param.Type)
		collect(s, x.Body)
	case model.Callback:
		for _, p := range x.Params {
			s.addRef(p.Type)
		}
		collect(s, x.Body)
	}
}
