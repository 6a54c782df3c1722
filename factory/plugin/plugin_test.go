package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
)

func TestClassifier(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", "linux-x86_64"},
		{"linux", "arm64", "linux-aarch_64"},
		{"darwin", "amd64", "osx-x86_64"},
		{"darwin", "arm64", "osx-aarch_64"},
		{"windows", "amd64", "windows-x86_64"},
		{"windows", "arm64", "windows-x86_64"},
		{"freebsd", "amd64", "linux-x86_64"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			assert.Equal(t, tt.want, Classifier(tt.goos, tt.goarch))
		})
	}
}

func TestURLTemplate(t *testing.T) {
	r := NewResolver(Settings{CacheDir: t.TempDir()}, zap.NewNop().Sugar())
	assert.Equal(t,
		"https://repo1.maven.org/maven2/io/grpc/protoc-gen-grpc-java/1.74.0/protoc-gen-grpc-java-1.74.0-linux-x86_64.exe",
		r.URL("linux-x86_64"))
}

func TestValidateVersion(t *testing.T) {
	assert.NoError(t, ValidateVersion("1.74.0"))
	assert.NoError(t, ValidateVersion("v1.2.3"))

	err := ValidateVersion("latest")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestResolveReusesCachedBinary(t *testing.T) {
	cache := t.TempDir()
	r := NewResolver(Settings{
		CacheDir: cache,
		// Unreachable on purpose: a download attempt would fail the test.
		URL: "http://127.0.0.1:1/{name}-{version}-{classifier}.{ext}",
	}, zap.NewNop().Sugar())

	cached := r.CachePath(DetectClassifier())
	require.NoError(t, os.WriteFile(cached, []byte("#!/bin/sh\n"), 0644))

	path, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Base(cached), filepath.Base(path))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0100, "binary should be executable")
	}

	// Second call is served from memory even if the file goes away.
	require.NoError(t, os.Remove(cached))
	again, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestResolveRejectsBadVersion(t *testing.T) {
	r := NewResolver(Settings{CacheDir: t.TempDir(), Version: "not-a-version"}, zap.NewNop().Sugar())
	_, err := r.Resolve(context.Background())
	assert.Error(t, err)
}
