package factory

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bsmider/reactorgen/errors"
)

// CheckResult holds the differences between freshly generated files and the
// files already on disk.
type CheckResult struct {
	Missing   []string // generated but absent from the existing tree
	Extra     []string // present in the existing tree only
	Different []string // present in both with different bytes
}

// Clean reports whether the trees match.
func (r *CheckResult) Clean() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Different) == 0
}

func (r *CheckResult) String() string {
	if r.Clean() {
		return "up to date"
	}
	var parts []string
	for _, group := range []struct {
		label string
		files []string
	}{{"missing", r.Missing}, {"extra", r.Extra}, {"different", r.Different}} {
		if len(group.files) > 0 {
			parts = append(parts, group.label+": "+strings.Join(group.files, ", "))
		}
	}
	return strings.Join(parts, "; ")
}

// CompareDirectories compares the .go files under generatedDir with the ones
// under existingDir. Paths in the result are slash-separated and relative.
func CompareDirectories(generatedDir, existingDir string) (*CheckResult, error) {
	generated, err := listGoFiles(generatedDir)
	if err != nil {
		return nil, err
	}
	existing := map[string]struct{}{}
	if _, statErr := os.Stat(existingDir); statErr == nil {
		if existing, err = listGoFiles(existingDir); err != nil {
			return nil, err
		}
	}

	result := &CheckResult{}
	for rel := range generated {
		if _, ok := existing[rel]; !ok {
			result.Missing = append(result.Missing, rel)
			continue
		}
		different, err := filesAreDifferent(filepath.Join(generatedDir, rel), filepath.Join(existingDir, rel))
		if err != nil {
			return nil, err
		}
		if different {
			result.Different = append(result.Different, rel)
		}
	}
	for rel := range existing {
		if _, ok := generated[rel]; !ok {
			result.Extra = append(result.Extra, rel)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	sort.Strings(result.Different)
	return result, nil
}

func listGoFiles(root string) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return files, errors.Wrapf(err, "failed to walk %s", root)
	}
	return files, nil
}

func filesAreDifferent(a, b string) (bool, error) {
	left, err := os.ReadFile(a)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", a)
	}
	right, err := os.ReadFile(b)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", b)
	}
	return !bytes.Equal(left, right), nil
}
