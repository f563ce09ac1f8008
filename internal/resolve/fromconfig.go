package resolve

import "github.com/monoship/monoship/pkg/config"

// ApplyResolutionConfig copies a project's propagation policy (set via
// `ProjectConfig.Resolution` in the project config file, §4.F, §9 Q1) onto
// Options, leaving Strategy/Version/Versions/BumpTable/Snapshot untouched.
func ApplyResolutionConfig(opts Options, cfg config.ResolutionConfig) Options {
	switch cfg.PropagationPolicy {
	case string(MatchUpstreamPropagation):
		opts.Propagation = MatchUpstreamPropagation
	case string(PatchPropagation), "":
		opts.Propagation = PatchPropagation
	default:
		opts.Propagation = PatchPropagation
	}
	opts.PropagateThroughPeerDependencies = cfg.PropagateThroughPeerDependencies
	opts.PropagateThroughOptionalDependencies = cfg.PropagateThroughOptionalDependencies
	return opts
}
