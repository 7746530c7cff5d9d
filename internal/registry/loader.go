package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sourced/internal/common/fsutil"
	"sourced/pkg/types"
)

// LoadDir scans a directory for source definition files (.yaml/.yml, .json,
// .toml), one source per file, in filename order. A definition without a name
// takes the file's base name; other files are ignored.
func LoadDir(dir string) ([]types.SourceSpec, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var specs []types.SourceSpec
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !fsutil.Decodable(name) {
			continue
		}
		var spec types.SourceSpec
		if err := fsutil.DecodeFile(filepath.Join(abs, name), &spec); err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
