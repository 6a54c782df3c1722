package factory

import (
	"sort"

	"github.com/bsmider/reactorgen/factory/orchestrator"
)

// SchemaSummary aggregates the outcome of a schema compilation run.
type SchemaSummary struct {
	Files    int
	Failed   []string
	Services []string // qualified proto service names, sorted and unique
}

// SummarizeSchemas folds per-file compile results into a summary.
func SummarizeSchemas(results []orchestrator.CompileResult) SchemaSummary {
	s := SchemaSummary{Files: len(results)}
	seen := map[string]bool{}
	for _, r := range results {
		if !r.OK() {
			s.Failed = append(s.Failed, r.File)
			continue
		}
		for _, svc := range r.Services {
			if !seen[svc] {
				seen[svc] = true
				s.Services = append(s.Services, svc)
			}
		}
	}
	sort.Strings(s.Services)
	return s
}
