package model

import (
	"github.com/bsmider/reactorgen/errors"
)

// ErrBuilderClosed is returned when a Builder is used after Build.
var ErrBuilderClosed = errors.New("model builder already built")

// Model is an immutable, ordered set of declarations.
type Model struct {
	order []*Class
	index map[string]*Class
	outer map[string]string // nested class -> enclosing class
}

// New creates a Model from top-level classes; nested classes are indexed too.
func New(classes ...*Class) (*Model, error) {
	b := NewBuilder(nil)
	for _, c := range classes {
		if err := b.Add(c); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Classes returns every declaration, nested ones included, in declaration order.
func (m *Model) Classes() []*Class {
	if m == nil {
		return nil
	}
	out := make([]*Class, len(m.order))
	copy(out, m.order)
	return out
}

// TopLevel returns the declarations that are not nested in another one.
func (m *Model) TopLevel() []*Class {
	var out []*Class
	for _, c := range m.Classes() {
		if m.OuterOf(c) == "" {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a declaration by qualified name.
func (m *Model) Lookup(name string) *Class {
	if m == nil {
		return nil
	}
	return m.index[name]
}

// OuterOf returns the qualified name of the declaration c is nested in,
// taken from c.Outer or from the Nested list it was added through.
func (m *Model) OuterOf(c *Class) string {
	if c.Outer != "" || m == nil {
		return c.Outer
	}
	return m.outer[c.Name]
}

// Len returns the number of declarations.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Builder accumulates declarations during one synthesis pass.
// It is owned by a single goroutine and must not be reused after Build.
type Builder struct {
	order []*Class
	index map[string]*Class
	outer map[string]string
	built bool
}

// NewBuilder starts a builder seeded with the declarations of base (may be nil).
func NewBuilder(base *Model) *Builder {
	b := &Builder{index: make(map[string]*Class), outer: make(map[string]string)}
	if base != nil {
		b.order = append(b.order, base.order...)
		for k, v := range base.index {
			b.index[k] = v
		}
		for k, v := range base.outer {
			b.outer[k] = v
		}
	}
	return b
}

// Add registers a class and, recursively, its nested classes. The classes
// are not modified.
func (b *Builder) Add(c *Class) error {
	if b.built {
		return ErrBuilderClosed
	}
	if c == nil || c.Name == "" {
		return errors.New("cannot add unnamed class to model")
	}
	if _, exists := b.index[c.Name]; exists {
		return errors.Newf("duplicate declaration %s", c.Name)
	}
	b.order = append(b.order, c)
	b.index[c.Name] = c
	for _, n := range c.Nested {
		if n.Outer != "" && n.Outer != c.Name {
			return errors.Newf("%s is nested in %s but declares outer %s", n.Name, c.Name, n.Outer)
		}
		b.outer[n.Name] = c.Name
		if err := b.Add(n); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a declaration added so far.
func (b *Builder) Lookup(name string) *Class {
	return b.index[name]
}

// Build freezes the builder into a Model.
func (b *Builder) Build() *Model {
	b.built = true
	m := &Model{
		order: make([]*Class, len(b.order)),
		index: make(map[string]*Class, len(b.index)),
		outer: make(map[string]string, len(b.outer)),
	}
	copy(m.order, b.order)
	for k, v := range b.index {
		m.index[k] = v
	}
	for k, v := range b.outer {
		m.outer[k] = v
	}
	return m
}
