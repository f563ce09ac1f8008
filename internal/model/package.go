// Package model holds the core data types shared across the release engine:
// packages, dependency specs, changesets, commits, and the plans the
// resolver produces. Nothing in this package touches disk or git; it is the
// vocabulary every other internal package speaks.
package model

import "fmt"

// DependencyKind partitions a package's declared dependencies.
type DependencyKind string

const (
	DependencyProd     DependencyKind = "prod"
	DependencyDev      DependencyKind = "dev"
	DependencyPeer     DependencyKind = "peer"
	DependencyOptional DependencyKind = "optional"
)

// AllDependencyKinds lists every kind in a stable order, used wherever a
// component must iterate all four partitions deterministically.
var AllDependencyKinds = []DependencyKind{DependencyProd, DependencyDev, DependencyPeer, DependencyOptional}

// Package is a single workspace member: identity, location, and declared
// dependencies partitioned by kind.
type Package struct {
	Name    string
	Version string

	// AbsPath is the package directory's absolute filesystem location.
	AbsPath string
	// RelPath is AbsPath relative to the workspace root, using forward
	// slashes regardless of host OS.
	RelPath string

	Dependencies map[DependencyKind]map[string]string // name -> spec string

	Private bool
	Scripts map[string]string

	// ManifestPath is the file that was parsed to produce this Package
	// (package.json, Cargo.toml, etc.) — the Manifest Writer's target.
	ManifestPath string
}

// AllDependencySpecs returns every (kind, name, spec) triple declared by the
// package across all four partitions, in deterministic kind order. Within a
// kind, callers that need deterministic name order should sort themselves.
func (p *Package) AllDependencySpecs() []DependencyDecl {
	var out []DependencyDecl
	for _, kind := range AllDependencyKinds {
		for name, spec := range p.Dependencies[kind] {
			out = append(out, DependencyDecl{Kind: kind, Name: name, Spec: spec})
		}
	}
	return out
}

// DependencyDecl is one dependency declaration read off a manifest.
type DependencyDecl struct {
	Kind DependencyKind
	Name string
	Spec string
}

// Validate checks the invariants §3 places on Package: a non-empty name and
// a version that parses as semver. Callers hold uniqueness (names unique
// within a workspace) at the Workspace level, since that's a cross-package
// invariant this type can't see on its own.
func (p *Package) Validate(parseVersion func(string) error) error {
	if p.Name == "" {
		return fmt.Errorf("package at %s: name is required", p.AbsPath)
	}
	if err := parseVersion(p.Version); err != nil {
		return fmt.Errorf("package %s: invalid version %q: %w", p.Name, p.Version, err)
	}
	return nil
}
