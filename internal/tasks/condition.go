package tasks

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/monoship/monoship/internal/model"
)

// EvaluateCondition reports whether cond gates the task IN (true) or OUT
// (false) for ctx, per §4.I's condition kinds: file-path globs matched
// against files changed in the current run, environment-variable presence
// or equality, package-changed-set membership, and a caller-supplied
// predicate.
func EvaluateCondition(cond model.Condition, ctx model.ConditionContext) (bool, error) {
	switch cond.Kind {
	case "file_glob":
		return matchesAnyGlob(cond.FileGlob, ctx.ChangedFiles)
	case "env":
		val, set := ctx.Env[cond.EnvVar]
		if cond.EnvEquals == "" {
			return set, nil
		}
		return set && val == cond.EnvEquals, nil
	case "changed_package":
		name := cond.PackageChanged
		if name == "" {
			name = ctx.Package
		}
		_, changed := ctx.ChangedPackages[name]
		return changed, nil
	case "predicate":
		if cond.Predicate == nil {
			return false, fmt.Errorf("condition kind %q has no Predicate function", cond.Kind)
		}
		return cond.Predicate(ctx), nil
	default:
		return false, fmt.Errorf("unknown condition kind %q", cond.Kind)
	}
}

// EvaluateAll reports whether every condition in conds passes for ctx — a
// task runs only when ALL of its gating conditions are satisfied.
func EvaluateAll(conds []model.Condition, ctx model.ConditionContext) (bool, error) {
	for _, cond := range conds {
		ok, err := EvaluateCondition(cond, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchesAnyGlob(pattern string, files []string) (bool, error) {
	for _, f := range files {
		ok, err := doublestar.Match(pattern, f)
		if err != nil {
			return false, fmt.Errorf("invalid file_glob pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
