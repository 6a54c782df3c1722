// Package plugin resolves the protoc code generator plugin binary,
// downloading it once into a local cache.
package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/logger"
)

// Defaults pin the grpc-java generator published on Maven Central.
const (
	DefaultName    = "grpc-java"
	DefaultVersion = "1.74.0"
	DefaultURL     = "https://repo1.maven.org/maven2/io/grpc/protoc-gen-{name}/{version}/protoc-gen-{name}-{version}-{classifier}.{ext}"
	DefaultExt     = "exe"
)

// Settings describes where the plugin comes from.
type Settings struct {
	Name     string // protoc-gen-<Name>
	Version  string
	URL      string // template with {name} {version} {classifier} {ext}
	CacheDir string
}

// Resolver downloads the plugin on first use and remembers the path.
type Resolver struct {
	settings Settings
	log      *zap.SugaredLogger

	mu     sync.Mutex
	cached string
}

func NewResolver(settings Settings, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = logger.ComponentLogger("plugin")
	}
	if settings.Name == "" {
		settings.Name = DefaultName
	}
	if settings.Version == "" {
		settings.Version = DefaultVersion
	}
	if settings.URL == "" {
		settings.URL = DefaultURL
	}
	if settings.CacheDir == "" {
		settings.CacheDir = DefaultCacheDir()
	}
	return &Resolver{settings: settings, log: log}
}

// DefaultCacheDir is <user cache>/reactorgen/plugins, or a temp dir when the
// user cache is unknown.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "reactorgen", "plugins")
}

// Name is the plugin name protoc flags are derived from.
func (r *Resolver) Name() string { return r.settings.Name }

// ValidateVersion rejects versions that are not semantic versions.
func ValidateVersion(version string) error {
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(version, "v")); err != nil {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "plugin version %q: %v", version, err),
			"use a release version such as 1.74.0")
	}
	return nil
}

// Classifier maps an OS and architecture to the artifact classifier.
// Anything unknown falls back to linux, and only arm is told apart from x86_64.
func Classifier(goos, goarch string) string {
	arm := strings.HasPrefix(goarch, "arm")
	switch goos {
	case "windows":
		return "windows-x86_64"
	case "darwin":
		if arm {
			return "osx-aarch_64"
		}
		return "osx-x86_64"
	default:
		if arm {
			return "linux-aarch_64"
		}
		return "linux-x86_64"
	}
}

// DetectClassifier returns the classifier of the running platform.
func DetectClassifier() string {
	return Classifier(runtime.GOOS, runtime.GOARCH)
}

// URL expands the download template for classifier.
func (r *Resolver) URL(classifier string) string {
	return strings.NewReplacer(
		"{name}", r.settings.Name,
		"{version}", r.settings.Version,
		"{classifier}", classifier,
		"{ext}", DefaultExt,
	).Replace(r.settings.URL)
}

// CachePath is where the binary for classifier is stored.
func (r *Resolver) CachePath(classifier string) string {
	file := "protoc-gen-" + r.settings.Name + "-" + r.settings.Version + "-" + classifier + "." + DefaultExt
	return filepath.Join(r.settings.CacheDir, file)
}

// Resolve returns the absolute path of an executable plugin binary.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}
	if err := ValidateVersion(r.settings.Version); err != nil {
		return "", err
	}

	classifier := DetectClassifier()
	path, err := filepath.Abs(r.CachePath(classifier))
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve plugin cache path")
	}
	log := logger.ChildLogger(r.log, logger.FieldBinary, "protoc-gen-"+r.settings.Name)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		log.Debugw("Using cached plugin", logger.FieldPath, path)
	} else {
		src := r.URL(classifier)
		log.Infow("Downloading plugin",
			"version", r.settings.Version,
			"classifier", classifier,
			"url", src)

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", errors.Wrapf(err, "failed to create %s", filepath.Dir(path))
		}
		client := &getter.Client{
			Ctx:     ctx,
			Src:     src,
			Dst:     path,
			Mode:    getter.ClientModeFile,
			Getters: getter.Getters,
		}
		if err := client.Get(); err != nil {
			_ = os.Remove(path)
			return "", errors.Wrapf(err, "failed to download plugin from %s", src)
		}
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0755); err != nil {
			return "", errors.Wrapf(err, "failed to mark %s executable", path)
		}
	}

	r.cached = path
	return path, nil
}
