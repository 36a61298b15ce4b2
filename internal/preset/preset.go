// Package preset stores option snapshots as TOML files so a tuned set of
// codec and filter fields can be reused across sources.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"webmclip/internal/options"
	"webmclip/internal/util"
)

const (
	currentVersion = 1
	ext            = ".toml"
)

// file is the on-disk layout.
type file struct {
	Version int            `toml:"version"`
	Name    string         `toml:"name,omitempty"`
	Fields  options.Fields `toml:"fields"`
}

// Path returns the preset file for name inside dir. A name that already
// looks like a path is returned unchanged.
func Path(dir, name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ext) {
		return name
	}
	return filepath.Join(dir, util.SanitizeFilename(name)+ext)
}

// Load reads the preset at path on top of base. Keys missing from the
// file keep base's values.
func Load(path string, base options.Fields) (options.Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read preset: %w", err)
	}
	doc := file{Fields: base}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return base, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}
	if doc.Version > currentVersion {
		return base, fmt.Errorf("preset %s: unsupported version %d", path, doc.Version)
	}
	return doc.Fields, nil
}

// Save writes f to path. The trim window belongs to a single source and
// is left out.
func Save(path, name string, f options.Fields) error {
	f.Start, f.End = "", ""
	data, err := toml.Marshal(file{Version: currentVersion, Name: name, Fields: f})
	if err != nil {
		return fmt.Errorf("failed to encode preset: %w", err)
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write preset: %w", err)
	}
	return nil
}

// List returns the preset names found in dir, sorted. A missing dir is
// an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
