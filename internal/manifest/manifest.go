// Package manifest patches a package.json in place for a resolved
// VersionUpdate — top-level version plus every rewritten dependency spec —
// preserving key order, indentation, and trailing newline, and writes
// atomically.
//
// It never fully unmarshals the manifest into a struct: sjson/gjson locate
// and replace only the bytes belonging to the targeted value, leaving
// everything else in the file byte-for-byte untouched, so fields the caller
// never modeled survive the round trip unchanged.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/monoship/monoship/internal/fileutil"
	"github.com/monoship/monoship/internal/model"
)

// sectionForKind maps a DependencyKind to its package.json object key.
func sectionForKind(kind model.DependencyKind) (string, error) {
	switch kind {
	case model.DependencyProd:
		return "dependencies", nil
	case model.DependencyDev:
		return "devDependencies", nil
	case model.DependencyPeer:
		return "peerDependencies", nil
	case model.DependencyOptional:
		return "optionalDependencies", nil
	default:
		return "", fmt.Errorf("unknown dependency kind %q", kind)
	}
}

// escapePath escapes sjson/gjson path metacharacters so a literal package
// name — which may itself contain ".", "*", or "?" (e.g. "socket.io") — is
// addressed as a single object key rather than parsed as nested path syntax.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Write applies one VersionUpdate to manifestPath: the top-level version
// field (if NewVersion is set) and every DependencyUpdate's rewritten spec
// in its matching dependencies/devDependencies/peerDependencies/
// optionalDependencies section. A Failed update is a no-op: the resolver
// already recorded why that package's version couldn't be computed, and
// there is nothing to write.
//
// The write is all-or-nothing: patches accumulate in memory, and only a
// fully-patched document is written, to a temporary sibling that is then
// renamed over manifestPath. A sibling .lock file guards the whole read-
// patch-write sequence against a concurrent invocation.
func Write(manifestPath string, update model.VersionUpdate) error {
	if update.Failed {
		return nil
	}

	fileLock := flock.New(manifestPath + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("%s: acquire lock: %w", manifestPath, err)
	}
	defer fileLock.Unlock()

	original, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("%s: read manifest: %w", manifestPath, err)
	}
	if !gjson.ValidBytes(original) {
		return fmt.Errorf("%s: not valid JSON", manifestPath)
	}

	patched := original
	if update.NewVersion != "" {
		patched, err = sjson.SetBytes(patched, "version", update.NewVersion)
		if err != nil {
			return fmt.Errorf("%s: set version: %w", manifestPath, err)
		}
	}

	for _, dep := range update.DependencyUpdates {
		section, err := sectionForKind(dep.Kind)
		if err != nil {
			return fmt.Errorf("%s: %w", manifestPath, err)
		}
		path := section + "." + escapePath(dep.DependencyName)
		patched, err = sjson.SetBytesOptions(patched, path, dep.NewSpec, &sjson.Options{Optimistic: true})
		if err != nil {
			return fmt.Errorf("%s: set %s: %w", manifestPath, path, err)
		}
	}

	if err := fileutil.AtomicWrite(manifestPath, patched, 0644); err != nil {
		return fmt.Errorf("%s: %w", manifestPath, err)
	}
	return nil
}

// WritePlan applies every non-failed update in plan to its package's
// manifest, resolving each update's target file through packages (name ->
// Package, as produced by the workspace/graph layer). Returns the list of
// manifest paths actually modified, in plan order, and stops at the first
// error — already-written files before it stay written, since atomicity is
// per-file, not per-plan.
func WritePlan(plan *model.ResolutionPlan, packages map[string]*model.Package) ([]string, error) {
	var modified []string
	for _, update := range plan.Updates {
		if update.Failed {
			continue
		}
		pkg, ok := packages[update.Package]
		if !ok {
			return modified, fmt.Errorf("package %q not found in workspace", update.Package)
		}
		if err := Write(pkg.ManifestPath, update); err != nil {
			return modified, err
		}
		modified = append(modified, pkg.ManifestPath)
	}
	return modified, nil
}

// ModifiedPaths computes the same file list WritePlan would produce without
// writing anything, so a dry-run caller can report what would change
// without touching disk.
func ModifiedPaths(plan *model.ResolutionPlan, packages map[string]*model.Package) ([]string, error) {
	var modified []string
	for _, update := range plan.Updates {
		if update.Failed {
			continue
		}
		pkg, ok := packages[update.Package]
		if !ok {
			return modified, fmt.Errorf("package %q not found in workspace", update.Package)
		}
		modified = append(modified, pkg.ManifestPath)
	}
	return modified, nil
}
