package factory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/render"
)

func TestFileEmitterLayout(t *testing.T) {
	out := t.TempDir()
	c := &model.Class{Name: testBase + "/config.EmptyGrpcConfig", Generated: true}

	files, err := NewFileEmitter(out, nil).Emit(context.Background(), []*model.Class{c})
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := filepath.Join(out, "example.com", "app", "reactive", "config", "EmptyGrpcConfig.go")
	assert.Equal(t, want, files[0].FullPath)
	assert.Equal(t, testBase+"/config", files[0].Package)

	src, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), render.Header))
	assert.Equal(t, len(src), files[0].Size)
}

func TestFileEmitterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := NewFileEmitter(t.TempDir(), nil).Emit(ctx, []*model.Class{{Name: testBase + ".XClient"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, files)
}
