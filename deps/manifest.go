package deps

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the dependency-declaration file read from the project root.
const ManifestFile = "package.json"

// Manifest is the subset of package.json this pipeline cares about. Unknown
// fields are ignored.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Main             string            `json:"main"`
	Type             string            `json:"type"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// ReadManifest loads package.json from dir. A missing manifest is not an
// error: projects may declare dependencies inline only.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &m, nil
}

// AllDependencies merges the manifest's dependency sections into one map.
// Regular dependencies outrank devDependencies which outrank
// peerDependencies when a name appears in more than one section.
func (m *Manifest) AllDependencies() map[string]string {
	if m == nil {
		return nil
	}
	all := make(map[string]string, len(m.Dependencies)+len(m.DevDependencies)+len(m.PeerDependencies))
	for name, rng := range m.PeerDependencies {
		all[name] = rng
	}
	for name, rng := range m.DevDependencies {
		all[name] = rng
	}
	for name, rng := range m.Dependencies {
		all[name] = rng
	}
	return all
}
