package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/monoship/monoship/internal/template"
)

// WorkspaceContext aggregates multiple packages' TemplateContexts for the
// workspace merge-message template.
type WorkspaceContext struct {
	PackageCount         int
	BreakingChangesCount int
	FeaturesCount        int
	FixesCount           int
	Date                 string
	Packages             []TemplateContext
}

// NewWorkspaceContext builds the aggregate context for a multi-package
// release. summaries maps package name to its pre-rendered changelog
// summary, as NewTemplateContext expects per package.
func NewWorkspaceContext(entries []Entry, summaries map[string]string) WorkspaceContext {
	ctx := WorkspaceContext{PackageCount: len(entries)}
	var latest time.Time
	for _, e := range entries {
		tc := NewTemplateContext(e, summaries[e.PackageName])
		ctx.Packages = append(ctx.Packages, tc)
		ctx.BreakingChangesCount += tc.BreakingChangesCount
		ctx.FeaturesCount += tc.FeaturesCount
		ctx.FixesCount += tc.FixesCount
		if e.Date.After(latest) {
			latest = e.Date
		}
	}
	ctx.Date = latest.Format("2006-01-02")
	return ctx
}

// MergeMessageOptions configures MergeMessage rendering. Empty source
// fields fall back to the builtin single/workspace/breaking templates.
type MergeMessageOptions struct {
	IncludeBreakingWarning  bool
	SingleTemplateSource    string
	WorkspaceTemplateSource string
	WarningTemplateSource   string
}

// MergeMessage renders the merge-commit message for a release: the
// single-package template when entries has exactly one element, the
// workspace template otherwise (§4.H "Merge message"). If
// opts.IncludeBreakingWarning is set and the release's aggregate breaking-
// change count is greater than zero, the rendered warning template is
// appended.
func MergeMessage(entries []Entry, summaries map[string]string, opts MergeMessageOptions) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("no entries to render a merge message for")
	}

	loader := template.NewTemplateLoader()
	renderer := template.NewTemplateRenderer()

	var body string
	var breakingCount int
	var err error

	if len(entries) == 1 {
		source := opts.SingleTemplateSource
		if source == "" {
			source = "builtin:single"
		}
		tmplContent, loadErr := loader.Load(source, template.TemplateTypeMerge)
		if loadErr != nil {
			return "", fmt.Errorf("load single merge template: %w", loadErr)
		}
		ctx := NewTemplateContext(entries[0], summaries[entries[0].PackageName])
		breakingCount = ctx.BreakingChangesCount
		body, err = renderer.Render(tmplContent, ctx)
		if err != nil {
			return "", fmt.Errorf("render single merge message: %w", err)
		}
	} else {
		source := opts.WorkspaceTemplateSource
		if source == "" {
			source = "builtin:workspace"
		}
		tmplContent, loadErr := loader.Load(source, template.TemplateTypeMerge)
		if loadErr != nil {
			return "", fmt.Errorf("load workspace merge template: %w", loadErr)
		}
		ctx := NewWorkspaceContext(entries, summaries)
		breakingCount = ctx.BreakingChangesCount
		body, err = renderer.Render(tmplContent, ctx)
		if err != nil {
			return "", fmt.Errorf("render workspace merge message: %w", err)
		}
	}

	if opts.IncludeBreakingWarning && breakingCount > 0 {
		warningSource := opts.WarningTemplateSource
		if warningSource == "" {
			warningSource = "builtin:breaking"
		}
		warningTmpl, loadErr := loader.Load(warningSource, template.TemplateTypeWarning)
		if loadErr != nil {
			return "", fmt.Errorf("load breaking warning template: %w", loadErr)
		}
		warning, renderErr := renderer.Render(warningTmpl, map[string]interface{}{"BreakingChangesCount": breakingCount})
		if renderErr != nil {
			return "", fmt.Errorf("render breaking warning: %w", renderErr)
		}
		body = strings.TrimRight(body, "\n") + warning
	}

	return body, nil
}
