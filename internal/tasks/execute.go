package tasks

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
)

// Runner invokes a target's PackageScript for its Package, in pkgDir, and
// reports its outcome. The default implementation shells out via os/exec;
// tests substitute a stub.
type Runner func(ctx context.Context, target Target, pkgDir string) (exitCode int, stdout, stderr string, err error)

// Options configures a Plan's execution.
type Options struct {
	// Concurrency bounds how many targets may run at once across the whole
	// plan. <= 0 means 1 (fully sequential).
	Concurrency int64
	// PackageDirs maps package name to its working directory, consulted by
	// the default Runner when invoking a package's script.
	PackageDirs map[string]string
	// Env is the environment passed through condition evaluation AND
	// exposed to package scripts.
	Env map[string]string
	// ChangedPackages/ChangedFiles feed condition gating (§4.I).
	ChangedPackages map[string]struct{}
	ChangedFiles    []string
	// Runner overrides how a package script is actually invoked. Defaults
	// to ExecRunner when nil.
	Runner Runner
}

// Plan is an expanded, ordered set of tasks ready to execute.
type Plan struct {
	// Order is the task names in dependency-satisfying order, from
	// ExpandDependencies.
	Order []string
	registry *Registry
	graph    *graph.DependencyGraph
}

// NewPlan expands requested tasks against reg and binds them to g for scope
// resolution.
func NewPlan(reg *Registry, g *graph.DependencyGraph, requested []string) (*Plan, error) {
	order, err := ExpandDependencies(reg, requested)
	if err != nil {
		return nil, err
	}
	return &Plan{Order: order, registry: reg, graph: g}, nil
}

// Run executes the plan: tasks run in dependency order; within a task, its
// per-package Targets run concurrently up to opts.Concurrency. A task whose
// dependency failed (and didn't have ContinueOnError) is marked Skipped for
// every one of its targets rather than attempted, per §4.I's failure
// propagation rule.
func (p *Plan) Run(ctx context.Context, opts Options) ([]model.TaskResult, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(concurrency)

	failed := make(map[string]bool) // task name -> at least one target failed
	var mu sync.Mutex
	var results []model.TaskResult

	for _, name := range p.Order {
		def, ok := p.registry.Get(name)
		if !ok {
			return results, fmt.Errorf("unknown task %q in expanded plan", name)
		}

		depFailed := false
		for _, dep := range def.Dependencies {
			if failed[dep] {
				depFailed = true
				break
			}
		}

		if depFailed && !def.ContinueOnError {
			targets, err := ResolveTargets(def, p.graph, opts.ChangedPackages)
			if err != nil {
				return results, err
			}
			now := opts.now()
			for _, t := range targets {
				results = append(results, model.TaskResult{
					Task:    def.Name,
					Package: t.Package,
					Status:  model.TaskSkipped,
					Reason:  "dependency failed",
					Start:   now,
					End:     now,
				})
			}
			failed[name] = true
			continue
		}

		targets, err := ResolveTargets(def, p.graph, opts.ChangedPackages)
		if err != nil {
			return results, err
		}

		taskResults, taskFailed, err := p.runTargets(ctx, targets, opts, sem)
		if err != nil {
			return results, err
		}
		mu.Lock()
		results = append(results, taskResults...)
		mu.Unlock()
		if taskFailed && !def.ContinueOnError {
			failed[name] = true
		}
	}

	return results, nil
}

func (o Options) now() time.Time {
	return time.Now()
}

func (p *Plan) runTargets(ctx context.Context, targets []Target, opts Options, sem *semaphore.Weighted) ([]model.TaskResult, bool, error) {
	results := make([]model.TaskResult, len(targets))
	var anyFailed bool
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			res, err := p.runOne(gctx, target, opts)
			mu.Lock()
			results[i] = res
			if res.Status == model.TaskFailed {
				anyFailed = true
			}
			mu.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, anyFailed, err
	}
	return results, anyFailed, nil
}

func (p *Plan) runOne(ctx context.Context, target Target, opts Options) (model.TaskResult, error) {
	def := target.Task
	start := time.Now()

	condCtx := model.ConditionContext{
		Package:         target.Package,
		ChangedPackages: opts.ChangedPackages,
		ChangedFiles:    opts.ChangedFiles,
		Env:             opts.Env,
	}
	ok, err := EvaluateAll(def.Conditions, condCtx)
	if err != nil {
		return model.TaskResult{
			Task: def.Name, Package: target.Package, Status: model.TaskFailed,
			Reason: err.Error(), Start: start, End: time.Now(),
		}, nil
	}
	if !ok {
		return model.TaskResult{
			Task: def.Name, Package: target.Package, Status: model.TaskSkipped,
			Reason: "condition not met", Start: start, End: time.Now(),
		}, nil
	}

	if def.PackageScript == "" {
		// A grouping node: it exists only to sequence its dependencies.
		return model.TaskResult{
			Task: def.Name, Package: target.Package, Status: model.TaskSucceeded,
			Start: start, End: time.Now(),
		}, nil
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if def.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, def.Timeout)
		defer cancel()
	}

	run := opts.Runner
	if run == nil {
		run = ExecRunner
	}
	pkgDir := opts.PackageDirs[target.Package]

	exitCode, stdout, stderr, runErr := run(runCtx, target, pkgDir)
	end := time.Now()

	status := model.TaskSucceeded
	reason := ""
	if runErr != nil {
		status = model.TaskFailed
		reason = runErr.Error()
		if runCtx.Err() == context.DeadlineExceeded {
			reason = fmt.Sprintf("timed out after %s", def.Timeout)
		}
	} else if exitCode != 0 {
		status = model.TaskFailed
		reason = fmt.Sprintf("exited with status %d", exitCode)
	}

	return model.TaskResult{
		Task: def.Name, Package: target.Package, Status: status, Reason: reason,
		Start: start, End: end, ExitCode: exitCode, Stdout: stdout, Stderr: stderr,
	}, nil
}

// ExecRunner invokes target.Task.PackageScript as `npm run <script>` in
// pkgDir, capturing stdout/stderr separately.
func ExecRunner(ctx context.Context, target Target, pkgDir string) (int, string, string, error) {
	cmd := exec.CommandContext(ctx, "npm", "run", target.Task.PackageScript)
	cmd.Dir = pkgDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
		err = nil
	}
	return exitCode, stdout.String(), stderr.String(), err
}
