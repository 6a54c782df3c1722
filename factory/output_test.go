package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bsmider/reactorgen/factory/model"
)

func TestSelectOutput(t *testing.T) {
	m := buildModel(t,
		&model.Class{Name: testBase + "/config.OrderGrpcConfig", Generated: true},
		&model.Class{Name: testBase + ".OrderGrpcClient", Generated: true},
		&model.Class{Name: testBase + ".AuditGrpcClient", Generated: true},
		&model.Class{Name: testBase + ".OrderGrpcHelper", Generated: true},
		&model.Class{Name: "example.com/other.OrderGrpcClient", Generated: true},
		&model.Class{Name: testBase + ".HandWrittenClient"},
		orderService(),
	)

	var names []string
	for _, c := range SelectOutput(m, testBase) {
		names = append(names, c.Name)
	}
	// '.' sorts before '/', so the base package comes before its config sub-package.
	assert.Equal(t, []string{
		testBase + ".AuditGrpcClient",
		testBase + ".OrderGrpcClient",
		testBase + "/config.OrderGrpcConfig",
	}, names)
}

func TestSelectOutputEmpty(t *testing.T) {
	m := buildModel(t, orderService())
	assert.Empty(t, SelectOutput(m, testBase))
}
