package model

// Hierarchy answers subtype questions over a declaration set.
type Hierarchy interface {
	IsSubtype(ref TypeRef, target string) bool
	Lookup(name string) *Class
}

// IsSubtype reports whether ref names target or a declaration that reaches
// target through its supertypes. Types unknown to the model only match
// themselves.
func (m *Model) IsSubtype(ref TypeRef, target string) bool {
	return m.isSubtype(ref.Name, target, make(map[string]bool))
}

func (m *Model) isSubtype(name, target string, seen map[string]bool) bool {
	if name == target {
		return true
	}
	if seen[name] {
		return false
	}
	seen[name] = true

	c := m.Lookup(name)
	if c == nil {
		return false
	}
	for _, st := range c.Supertypes {
		if m.isSubtype(st.Name, target, seen) {
			return true
		}
	}
	return false
}

// HasMethods reports whether the declaration named by ref declares every one
// of the given method names, directly or through its supertypes.
func (m *Model) HasMethods(ref TypeRef, names ...string) bool {
	for _, n := range names {
		if !m.hasMethod(ref.Name, n, make(map[string]bool)) {
			return false
		}
	}
	return len(names) > 0
}

func (m *Model) hasMethod(name, method string, seen map[string]bool) bool {
	if seen[name] {
		return false
	}
	seen[name] = true

	c := m.Lookup(name)
	if c == nil {
		return false
	}
	if c.Method(method) != nil {
		return true
	}
	for _, st := range c.Supertypes {
		if m.hasMethod(st.Name, method, seen) {
			return true
		}
	}
	return false
}
