package model

import "time"

// TaskScope determines how many times a task runs and what it's bound to.
type TaskScope string

const (
	// ScopeGlobal runs the task exactly once, unbound to any package.
	ScopeGlobal TaskScope = "global"
	// ScopePackage runs the task once, bound to a single named package.
	ScopePackage TaskScope = "package"
	// ScopeAffectedPackages runs once per package in the analyzer's
	// affected set, in topological order.
	ScopeAffectedPackages TaskScope = "affected_packages"
	// ScopeAllPackages runs once per package in the graph's topological
	// order.
	ScopeAllPackages TaskScope = "all_packages"
)

// Condition gates whether a task runs for a given package/run context.
type Condition struct {
	// Kind selects which field below is meaningful: "file_glob", "env",
	// "changed_package", or "predicate".
	Kind          string
	FileGlob      string
	EnvVar        string
	EnvEquals     string
	PackageChanged string
	// Predicate, when Kind == "predicate", is evaluated by the caller; the
	// task manager itself has no notion of custom predicate logic beyond
	// invoking this function.
	Predicate func(ctx ConditionContext) bool
}

// ConditionContext is what a Condition is evaluated against.
type ConditionContext struct {
	Package         string
	ChangedPackages map[string]struct{}
	// ChangedFiles are paths (relative to the workspace root) touched in the
	// current run, against which a "file_glob" Condition is matched.
	ChangedFiles []string
	Env          map[string]string
}

// TaskDefinition describes one registered task.
type TaskDefinition struct {
	Name            string
	Description     string
	Scope           TaskScope
	PackageName     string // set when Scope == ScopePackage
	PackageScript   string // script name invoked in the target package's manifest; empty => grouping node
	Conditions      []Condition
	Dependencies    []string
	ContinueOnError bool
	Timeout         time.Duration
}

// TaskStatus is the terminal or in-flight state of one task execution.
type TaskStatus string

const (
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
	TaskSkipped   TaskStatus = "skipped"
	TaskCancelled TaskStatus = "cancelled"
	TaskRunning   TaskStatus = "running"
)

// TaskResult is one execution record: a (task, package) pair run once.
type TaskResult struct {
	Task      string
	Package   string // empty for Global-scope tasks
	Status    TaskStatus
	Reason    string // populated for Skipped/Failed
	Start     time.Time
	End       time.Time
	ExitCode  int
	Stdout    string
	Stderr    string
}
