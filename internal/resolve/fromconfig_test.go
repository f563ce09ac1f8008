package resolve

import (
	"testing"

	"github.com/monoship/monoship/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestApplyResolutionConfig_DefaultsToPatchPropagation(t *testing.T) {
	opts := ApplyResolutionConfig(Options{Strategy: Independent}, config.ResolutionConfig{})

	assert.Equal(t, PatchPropagation, opts.Propagation)
	assert.False(t, opts.PropagateThroughPeerDependencies)
	assert.False(t, opts.PropagateThroughOptionalDependencies)
}

func TestApplyResolutionConfig_MatchUpstream(t *testing.T) {
	cfg := config.ResolutionConfig{
		PropagationPolicy:                    "match_upstream",
		PropagateThroughPeerDependencies:     true,
		PropagateThroughOptionalDependencies: true,
	}

	opts := ApplyResolutionConfig(Options{Strategy: Independent}, cfg)

	assert.Equal(t, MatchUpstreamPropagation, opts.Propagation)
	assert.True(t, opts.PropagateThroughPeerDependencies)
	assert.True(t, opts.PropagateThroughOptionalDependencies)
}

func TestApplyResolutionConfig_UnknownPolicyFallsBackToPatch(t *testing.T) {
	opts := ApplyResolutionConfig(Options{}, config.ResolutionConfig{PropagationPolicy: "bogus"})
	assert.Equal(t, PatchPropagation, opts.Propagation)
}

func TestApplyResolutionConfig_PreservesStrategyFields(t *testing.T) {
	opts := ApplyResolutionConfig(Options{
		Strategy: Manual,
		Versions: map[string]string{"api": "2.0.0"},
	}, config.ResolutionConfig{})

	assert.Equal(t, Manual, opts.Strategy)
	assert.Equal(t, "2.0.0", opts.Versions["api"])
}
