// Package workspace discovers a JS/TS monorepo's root manifest, its
// package-manager flavor, and its member packages (§4.A).
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/monoship/monoship/internal/model"
)

// Flavor is the detected package-manager layout.
type Flavor string

const (
	FlavorNPM  Flavor = "npm"
	FlavorBun  Flavor = "bun"
	FlavorPNPM Flavor = "pnpm"
	FlavorYarn Flavor = "yarn"
)

// lockfilesByPriority is checked in this order; the first match wins, per
// §4.A.
var lockfilesByPriority = []struct {
	file   string
	flavor Flavor
}{
	{"package-lock.json", FlavorNPM},
	{"bun.lockb", FlavorBun},
	{"pnpm-lock.yaml", FlavorPNPM},
	{"yarn.lock", FlavorYarn},
}

// Workspace is a discovered monorepo: its root, flavor, and member packages.
type Workspace struct {
	Root     string
	Flavor   Flavor
	Packages []model.Package
}

// GetPackage returns the member with the given name, or false if absent.
func (w *Workspace) GetPackage(name string) (model.Package, bool) {
	for _, p := range w.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return model.Package{}, false
}

type rootManifest struct {
	Name       string      `json:"name"`
	Workspaces interface{} `json:"workspaces"` // []string or {packages: []string}
}

// Discover reads root's manifest, determines the package-manager flavor,
// resolves workspace glob patterns, and parses every matched member's
// manifest into a model.Package.
func Discover(root string) (*Workspace, error) {
	rootManifestPath := filepath.Join(root, "package.json")
	rootData, err := os.ReadFile(rootManifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading root manifest %s: %w", rootManifestPath, err)
	}

	var rm rootManifest
	if err := json.Unmarshal(rootData, &rm); err != nil {
		return nil, fmt.Errorf("parsing root manifest %s: %w", rootManifestPath, err)
	}

	flavor := detectFlavor(root)

	patterns, err := resolvePatterns(root, flavor, rm)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace patterns: %w", err)
	}

	memberDirs, err := matchMembers(root, patterns)
	if err != nil {
		return nil, fmt.Errorf("matching workspace members: %w", err)
	}

	var packages []model.Package
	seen := map[string]bool{}
	for _, dir := range memberDirs {
		if dir == root {
			continue // skip the root manifest itself
		}
		if containsNodeModules(root, dir) {
			continue
		}
		manifestPath := filepath.Join(dir, "package.json")
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // no manifest in this directory; not a package
		}
		pkg, err := parsePackageManifest(root, dir, manifestPath, data)
		if err != nil {
			return nil, fmt.Errorf("parsing package manifest %s: %w", manifestPath, err)
		}
		if seen[pkg.Name] {
			return nil, fmt.Errorf("duplicate package name %q (at %s)", pkg.Name, dir)
		}
		seen[pkg.Name] = true
		packages = append(packages, *pkg)
	}

	if len(packages) == 0 {
		return nil, fmt.Errorf("workspace at %s has zero members", root)
	}

	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })

	return &Workspace{Root: root, Flavor: flavor, Packages: packages}, nil
}

func detectFlavor(root string) Flavor {
	for _, lf := range lockfilesByPriority {
		if _, err := os.Stat(filepath.Join(root, lf.file)); err == nil {
			return lf.flavor
		}
	}
	return FlavorNPM
}

// resolvePatterns resolves the glob patterns that name workspace members:
// for pnpm, from pnpm-workspace.yaml; for the others, from the root
// manifest's `workspaces` field (array or {packages: []}). Falls back to
// packages/*, apps/*, libs/* when nothing is declared.
func resolvePatterns(root string, flavor Flavor, rm rootManifest) ([]string, error) {
	if flavor == FlavorPNPM {
		return resolvePNPMPatterns(root)
	}

	switch v := rm.Workspaces.(type) {
	case []interface{}:
		return toStringSlice(v), nil
	case map[string]interface{}:
		if pkgs, ok := v["packages"]; ok {
			if list, ok := pkgs.([]interface{}); ok {
				return toStringSlice(list), nil
			}
		}
		return nil, fmt.Errorf("malformed workspaces.packages in root manifest")
	case nil:
		return fallbackPatterns(root), nil
	default:
		return nil, fmt.Errorf("malformed workspaces field in root manifest")
	}
}

func resolvePNPMPatterns(root string) ([]string, error) {
	path := filepath.Join(root, "pnpm-workspace.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallbackPatterns(root), nil
		}
		return nil, err
	}
	var cfg struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing pnpm-workspace.yaml: %w", err)
	}
	if len(cfg.Packages) == 0 {
		return fallbackPatterns(root), nil
	}
	return cfg.Packages, nil
}

// fallbackPatterns returns whichever of the conventional roots exist on
// disk, per §4.A's fallback rule.
func fallbackPatterns(root string) []string {
	var out []string
	for _, candidate := range []string{"packages/*", "apps/*", "libs/*"} {
		base := strings.SplitN(candidate, "/", 2)[0]
		if info, err := os.Stat(filepath.Join(root, base)); err == nil && info.IsDir() {
			out = append(out, candidate)
		}
	}
	return out
}

func toStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// matchMembers expands glob patterns (with `!`-prefixed exclusions) into a
// deduplicated, sorted list of absolute directories under root.
func matchMembers(root string, patterns []string) ([]string, error) {
	var includes, excludes []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, strings.TrimPrefix(p, "!"))
		} else {
			includes = append(includes, p)
		}
	}

	matched := map[string]bool{}
	for _, pattern := range includes {
		dirPattern := strings.TrimSuffix(pattern, "/")
		matches, err := doublestar.Glob(os.DirFS(root), dirPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs := filepath.Join(root, m)
			info, err := os.Stat(abs)
			if err == nil && info.IsDir() {
				matched[abs] = true
			}
		}
	}

	for _, pattern := range excludes {
		dirPattern := strings.TrimSuffix(pattern, "/")
		matches, err := doublestar.Glob(os.DirFS(root), dirPattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			delete(matched, filepath.Join(root, m))
		}
	}

	out := make([]string, 0, len(matched))
	for dir := range matched {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out, nil
}

func containsNodeModules(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		if segment == "node_modules" {
			return true
		}
	}
	return false
}
