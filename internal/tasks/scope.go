package tasks

import (
	"fmt"

	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
)

// Target is one (task, package) pairing to execute — Package is empty for
// Global-scope tasks.
type Target struct {
	Task    *model.TaskDefinition
	Package string
}

// ResolveTargets expands def into the concrete set of Targets to run, given
// the dependency graph and the set of packages affected by the current run
// (§4.I: "global", "package", "affected_packages", "all_packages").
// Package-scoped and multi-package scopes iterate in the graph's
// dependency-before-dependent topological order.
func ResolveTargets(def *model.TaskDefinition, g *graph.DependencyGraph, affected map[string]struct{}) ([]Target, error) {
	switch def.Scope {
	case model.ScopeGlobal:
		return []Target{{Task: def}}, nil

	case model.ScopePackage:
		if def.PackageName == "" {
			return nil, fmt.Errorf("task %q has scope package but no PackageName set", def.Name)
		}
		return []Target{{Task: def, Package: def.PackageName}}, nil

	case model.ScopeAffectedPackages:
		var targets []Target
		for _, name := range g.TopologicalOrder() {
			if _, ok := affected[name]; ok {
				targets = append(targets, Target{Task: def, Package: name})
			}
		}
		return targets, nil

	case model.ScopeAllPackages:
		var targets []Target
		for _, name := range g.TopologicalOrder() {
			targets = append(targets, Target{Task: def, Package: name})
		}
		return targets, nil

	default:
		return nil, fmt.Errorf("task %q has unknown scope %q", def.Name, def.Scope)
	}
}
