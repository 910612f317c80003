// Package paths centralizes the on-disk layout of the imagetree data directory.
//
//	{dataDir}/
//	  images.json          default snapshot file
//	  layouts/{name}/      OCI image layouts
package paths

import (
	"fmt"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Paths resolves file locations below a data directory.
type Paths struct {
	dataDir string
}

// New creates a Paths rooted at dataDir.
func New(dataDir string) *Paths {
	return &Paths{dataDir: dataDir}
}

// DataDir returns the root data directory.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// Snapshot returns the default snapshot file.
func (p *Paths) Snapshot() string {
	return filepath.Join(p.dataDir, "images.json")
}

// LayoutsDir returns the directory holding named OCI layouts.
func (p *Paths) LayoutsDir() string {
	return filepath.Join(p.dataDir, "layouts")
}

// Layout resolves an OCI layout location. Absolute paths are returned as is;
// anything else is treated as a name inside LayoutsDir and may not escape it.
func (p *Paths) Layout(name string) (string, error) {
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	resolved, err := securejoin.SecureJoin(p.LayoutsDir(), name)
	if err != nil {
		return "", fmt.Errorf("resolve layout %q: %w", name, err)
	}
	return resolved, nil
}
