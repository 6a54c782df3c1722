package render

import (
	"sort"
	"strconv"

	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
)

// importSet assigns each referenced package a unique name in one file.
type importSet struct {
	self    string
	selfPkg string
	names   map[string]string // path -> name
}

func newImportSet(self string) *importSet {
	return &importSet{self: self, selfPkg: utils.DefaultPackageName(self), names: make(map[string]string)}
}

func (s *importSet) addRef(t model.TypeRef) {
	s.add(t.Package())
	for _, a := range t.Args {
		s.addRef(a)
	}
}

func (s *importSet) add(path string) {
	if path == "" || path == s.self {
		return
	}
	s.names[path] = ""
}

// resolve names packages in path order; clashes get a numeric suffix.
func (s *importSet) resolve() {
	paths := s.paths()
	used := map[string]bool{s.selfPkg: true}
	for _, p := range paths {
		base := utils.DefaultPackageName(p)
		name := base
		for i := 2; used[name]; i++ {
			name = base + strconv.Itoa(i)
		}
		used[name] = true
		s.names[p] = name
	}
}

func (s *importSet) paths() []string {
	out := make([]string, 0, len(s.names))
	for p := range s.names {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// name returns the qualifier for path, or "" for the file's own package.
func (s *importSet) name(path string) string {
	if path == "" || path == s.self {
		return ""
	}
	return s.names[path]
}
