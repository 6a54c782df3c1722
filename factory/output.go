package factory

import (
	"context"
	"sort"
	"strings"

	"github.com/bsmider/reactorgen/factory/model"
)

// Emitter writes selected classes as source files.
type Emitter interface {
	Emit(ctx context.Context, classes []*model.Class) ([]GeneratedFile, error)
}

// SelectOutput returns the synthesized classes under basePackage whose simple
// name ends with Config or Client, ordered by qualified name. Parsed
// declarations are never selected.
func SelectOutput(m *model.Model, basePackage string) []*model.Class {
	var out []*model.Class
	for _, c := range m.Classes() {
		if !c.Generated || !strings.HasPrefix(c.Name, basePackage) {
			continue
		}
		simple := c.SimpleName()
		if strings.HasSuffix(simple, ConfigSuffix) || strings.HasSuffix(simple, ClientSuffix) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
