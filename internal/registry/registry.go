// Package registry is an optional lookup against a package's published
// versions: given a package name it answers "what versions exist" and
// "what's the latest". The version resolver does not consult it; callers
// that want to check a computed version against it do so themselves. It is offline and
// local by design — no component reaches out to a real npm registry over
// the network.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/monoship/monoship/internal/semver"
)

// Client looks up published version information for a package.
type Client interface {
	// GetAllVersions returns every known version string for name, or an
	// empty slice if the package is unknown.
	GetAllVersions(ctx context.Context, name string) ([]string, error)
	// GetLatest returns the highest semver version known for name, or
	// ("", false, nil) if the package has no known versions.
	GetLatest(ctx context.Context, name string) (string, bool, error)
}

// LocalRegistry is an in-memory Client, populated by the caller (typically
// from a fixture or a prior run's cache) rather than a network call.
type LocalRegistry struct {
	mu       sync.Mutex
	versions map[string]map[string]struct{}
}

// NewLocalRegistry returns an empty LocalRegistry.
func NewLocalRegistry() *LocalRegistry {
	return &LocalRegistry{versions: make(map[string]map[string]struct{})}
}

// AddVersion records one published version of name.
func (r *LocalRegistry) AddVersion(name, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.versions[name] == nil {
		r.versions[name] = make(map[string]struct{})
	}
	r.versions[name][version] = struct{}{}
}

// AddVersions records several published versions of name at once.
func (r *LocalRegistry) AddVersions(name string, versions []string) {
	for _, v := range versions {
		r.AddVersion(name, v)
	}
}

// Has reports whether name has at least one recorded version.
func (r *LocalRegistry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.versions[name]
	return ok
}

// Clear removes every recorded package, mainly useful between test cases.
func (r *LocalRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = make(map[string]map[string]struct{})
}

func (r *LocalRegistry) GetAllVersions(_ context.Context, name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.versions[name]
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out, nil
}

func (r *LocalRegistry) GetLatest(ctx context.Context, name string) (string, bool, error) {
	versions, err := r.GetAllVersions(ctx, name)
	if err != nil {
		return "", false, err
	}
	if len(versions) == 0 {
		return "", false, nil
	}

	var latest semver.Version
	var latestStr string
	for i, raw := range versions {
		v, err := semver.Parse(raw)
		if err != nil {
			return "", false, fmt.Errorf("registry has unparseable version %q for %s: %w", raw, name, err)
		}
		if i == 0 || v.GreaterThan(latest) {
			latest = v
			latestStr = raw
		}
	}
	return latestStr, true, nil
}
