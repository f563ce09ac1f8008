package workspace

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/monoship/monoship/internal/model"
)

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	PeerDeps        map[string]string `json:"peerDependencies"`
	OptionalDeps    map[string]string `json:"optionalDependencies"`
}

// parsePackageManifest decodes a member's package.json into a model.Package,
// recording its location relative to the workspace root.
func parsePackageManifest(root, dir, manifestPath string, data []byte) (*model.Package, error) {
	var pj packageJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if pj.Name == "" {
		return nil, fmt.Errorf("missing required \"name\" field")
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	deps := map[model.DependencyKind]map[string]string{
		model.DependencyProd:     pj.Dependencies,
		model.DependencyDev:      pj.DevDependencies,
		model.DependencyPeer:     pj.PeerDeps,
		model.DependencyOptional: pj.OptionalDeps,
	}
	for kind, m := range deps {
		if m == nil {
			deps[kind] = map[string]string{}
		}
	}

	return &model.Package{
		Name:         pj.Name,
		Version:      strings.TrimSpace(pj.Version),
		AbsPath:      dir,
		RelPath:      rel,
		Dependencies: deps,
		Private:      pj.Private,
		Scripts:      pj.Scripts,
		ManifestPath: manifestPath,
	}, nil
}
