// Package model is the in-memory class model the generator works on.
//
// It describes declarations (classes, their nested types, fields and methods)
// independently of the source language. The Go front end in factory/utils
// fills it from parsed stub sources and factory/render prints synthesized
// declarations back as Go.
package model

import (
	"strings"
)

// VoidName is the qualified name of the unit type.
const VoidName = "void"

// Void is the return type of methods that produce no value.
var Void = TypeRef{Name: VoidName}

// TypeRef references a type by qualified name, with ordered generic arguments.
type TypeRef struct {
	Name    string    // e.g. "example.com/orders/orderpb.OrderReply"
	Args    []TypeRef // generic arguments, possibly empty
	Pointer bool      // referenced through a pointer (Go only)
}

// Ref builds a TypeRef from a qualified name and optional type arguments.
func Ref(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// PtrRef builds a pointer TypeRef.
func PtrRef(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args, Pointer: true}
}

// IsVoid reports whether the reference is the unit type.
func (t TypeRef) IsVoid() bool {
	return t.Name == "" || t.Name == VoidName
}

// SimpleName returns the name without its package qualifier.
func (t TypeRef) SimpleName() string {
	return SimpleName(t.Name)
}

// Package returns the package part of the qualified name, or "" for builtins.
func (t TypeRef) Package() string {
	return PackageOf(t.Name)
}

// String renders the reference canonically; it is used as a cache key.
func (t TypeRef) String() string {
	var b strings.Builder
	if t.Pointer {
		b.WriteByte('*')
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Equal compares two references structurally.
func (t TypeRef) Equal(o TypeRef) bool {
	return t.String() == o.String()
}

// Param is a named, typed method parameter.
type Param struct {
	Name string
	Type TypeRef
}

// Field is a member variable of a class.
type Field struct {
	Name string
	Type TypeRef
}

// Annotation is opaque metadata attached to a class or method.
// The generator copies annotations through without interpreting them.
type Annotation struct {
	Name   string
	Values map[string]string
}

// Method is a method declaration. Body is nil for parsed (input) methods.
type Method struct {
	Name        string
	Params      []Param
	Returns     TypeRef
	Body        Expr
	Annotations []Annotation
}

// ClassKind distinguishes concrete types from pure capability sets.
type ClassKind int

const (
	KindStruct ClassKind = iota
	KindInterface
)

// Class is a type declaration. Name is qualified.
type Class struct {
	Name        string
	Kind        ClassKind
	Outer       string // qualified name of the enclosing declaration, if nested
	Nested      []*Class
	Supertypes  []TypeRef
	Fields      []Field
	Methods     []*Method
	Annotations []Annotation
	Generated   bool // created by the synthesizers rather than parsed
	SourceFile  string
}

// SimpleName returns the class name without its package.
func (c *Class) SimpleName() string {
	return SimpleName(c.Name)
}

// Package returns the package of the class.
func (c *Class) Package() string {
	return PackageOf(c.Name)
}

// Ref returns a reference to the class.
func (c *Class) Ref() TypeRef {
	return TypeRef{Name: c.Name}
}

// Method returns the first method with the given name, or nil.
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// HasAnnotation reports whether an annotation with the given name is attached.
func (c *Class) HasAnnotation(name string) bool {
	for _, a := range c.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Qualify joins a package and a simple name into a qualified name.
func Qualify(pkg, simple string) string {
	if pkg == "" {
		return simple
	}
	return pkg + "." + simple
}

// SubPackage returns the child package path of pkg.
func SubPackage(pkg, child string) string {
	if pkg == "" {
		return child
	}
	return pkg + "/" + child
}

// SimpleName strips the package qualifier from a qualified name.
func SimpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 && i > strings.LastIndex(qualified, "/") {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns the package part of a qualified name.
func PackageOf(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 && i > strings.LastIndex(qualified, "/") {
		return qualified[:i]
	}
	return ""
}
