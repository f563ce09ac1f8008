package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/monoship/monoship/internal/analyzer"
	"github.com/monoship/monoship/internal/changelog"
	"github.com/monoship/monoship/internal/changeset"
	"github.com/monoship/monoship/internal/commit"
	"github.com/monoship/monoship/internal/config"
	"github.com/monoship/monoship/internal/git"
	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/logger"
	"github.com/monoship/monoship/internal/manifest"
	"github.com/monoship/monoship/internal/model"
	"github.com/monoship/monoship/internal/resolve"
	"github.com/monoship/monoship/internal/workspace"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// buildCommitsByPackage attributes conventional commits in (since, HEAD] to
// the packages whose files they touch, for the Version Resolver's commit
// fallback (§4.F step 2). A repository-discovery or range failure is
// non-fatal here — it just means no package gets a commit-derived
// suggestion, which is the correct behavior for a workspace with no git
// history in range (e.g. the very first commit).
func buildCommitsByPackage(repoRoot, since string, packages []model.Package) map[string][]model.ConventionalCommit {
	commitsByPackage := make(map[string][]model.ConventionalCommit)

	head, err := git.CurrentSHA(repoRoot)
	if err != nil {
		return commitsByPackage
	}
	if since == "" {
		since, err = git.PreviousSHA(repoRoot)
		if err != nil {
			return commitsByPackage
		}
	}

	changes, err := analyzer.New(repoRoot, packages).AnalyzeCommitRange(since, head)
	if err != nil {
		return commitsByPackage
	}

	raw, err := git.CommitsInRange(repoRoot, since, head)
	if err != nil {
		return commitsByPackage
	}
	byHash := make(map[string]git.RepoCommit, len(raw))
	for _, c := range raw {
		byHash[c.Hash] = c
	}

	for pkgName, change := range changes {
		if pkgName == "" || !change.HasChanges {
			continue
		}
		for _, hash := range change.Commits {
			rc, ok := byHash[hash]
			if !ok {
				continue
			}
			commitsByPackage[pkgName] = append(commitsByPackage[pkgName],
				commit.Parse(rc.Hash, rc.AuthorName, rc.AuthorDate, rc.Message))
		}
	}
	return commitsByPackage
}

// markChangesetsApplied transitions every changeset in plan's updates to
// Applied, matching §3's "Changesets ... mutate only via status transition"
// lifecycle. Only changesets that actually fed a non-failed update are
// transitioned; changesets for a failed update stay pending so a retry
// picks them up again.
func markChangesetsApplied(store *changeset.Store, pending []*model.Changeset, plan *model.ResolutionPlan) error {
	applied := make(map[string]bool)
	for _, u := range plan.Updates {
		if u.Reason.Kind == model.ReasonChangeset && !u.Failed {
			applied[u.Package] = true
		}
	}
	for _, cs := range pending {
		if !applied[cs.Package] {
			continue
		}
		cs.Status = model.ChangesetApplied
		if err := store.Save(cs); err != nil {
			return fmt.Errorf("marking changeset %s applied: %w", cs.ShortID(), err)
		}
	}
	return nil
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Resolve pending changesets into version updates and changelogs",
	Long:  `Resolve pending changesets (and conventional-commit fallback signals) into a version update plan, apply it to package manifests, and write changelogs.`,
	Run: func(cmd *cobra.Command, args []string) {
		projectConfig, err := config.LoadProjectConfig()
		if err != nil {
			logger.Error("Failed to load project configuration", "error", err)
			fmt.Printf("Error: Unable to load project configuration: %v\n", err)
			fmt.Println("Please run 'shipyard init' to initialize your project.")
			os.Exit(1)
		}

		cwd, err := os.Getwd()
		if err != nil {
			logger.Error("Failed to get working directory", "error", err)
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ws, err := workspace.Discover(cwd)
		if err != nil {
			logger.Error("Failed to discover workspace", "error", err)
			fmt.Printf("Error: Unable to discover workspace: %v\n", err)
			os.Exit(1)
		}

		g, err := graph.Build(ws.Packages)
		if err != nil {
			logger.Error("Failed to build dependency graph", "error", err)
			fmt.Printf("Error: Unable to build dependency graph: %v\n", err)
			os.Exit(1)
		}

		packageFilter, _ := cmd.Flags().GetString("package")
		if packageFilter != "" {
			if _, ok := ws.GetPackage(packageFilter); !ok {
				logger.Error("Package not found", "package", packageFilter)
				fmt.Printf("Error: Package '%s' not found in workspace\n", packageFilter)
				os.Exit(1)
			}
		}

		store := changeset.NewStore(filepath.Join(cwd, changesetDir))
		filter := changeset.Filter{Status: model.ChangesetPending}
		if packageFilter != "" {
			filter.Package = packageFilter
		}
		pending, err := store.List(filter)
		if err != nil {
			logger.Error("Failed to list changesets", "error", err)
			fmt.Printf("Error: Unable to read changesets: %v\n", err)
			os.Exit(1)
		}

		since, _ := cmd.Flags().GetString("since")
		var commitsByPackage map[string][]model.ConventionalCommit
		if root, err := git.FindRepositoryRoot(cwd); err == nil {
			commitsByPackage = buildCommitsByPackage(root, since, ws.Packages)
		} else {
			commitsByPackage = map[string][]model.ConventionalCommit{}
		}

		opts := resolve.ApplyResolutionConfig(resolve.Options{Strategy: resolve.Independent}, projectConfig.Resolution)

		if snapshot, _ := cmd.Flags().GetBool("snapshot"); snapshot {
			opts.Snapshot = true
			sha, err := git.CurrentSHA(cwd)
			if err != nil {
				sha = "unknown"
			}
			if len(sha) > 8 {
				sha = sha[:8]
			}
			opts.SnapshotSHA = sha
		}

		plan, err := resolve.Resolve(g, pending, commitsByPackage, opts)
		if err != nil {
			logger.Error("Failed to resolve versions", "error", err)
			fmt.Printf("Error: Unable to resolve versions: %v\n", err)
			os.Exit(1)
		}

		if packageFilter != "" {
			filtered := &model.ResolutionPlan{Cycles: plan.Cycles, ChangesetFailures: plan.ChangesetFailures}
			for _, u := range plan.Updates {
				if u.Package == packageFilter {
					filtered.Updates = append(filtered.Updates, u)
				}
			}
			plan = filtered
		}

		if len(plan.Updates) == 0 {
			fmt.Println("No pending changesets or commit-derived suggestions. Nothing to resolve.")
			if len(plan.ChangesetFailures) > 0 {
				for _, f := range plan.ChangesetFailures {
					fmt.Printf("  ⚠️  changeset %s (%s): %s\n", f.ChangesetID, f.Package, f.Reason)
				}
			}
			return
		}

		packagesByName := make(map[string]*model.Package, len(ws.Packages))
		for i := range ws.Packages {
			packagesByName[ws.Packages[i].Name] = &ws.Packages[i]
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		fmt.Printf("🔖 Version Plan\n")
		fmt.Printf("===============\n")
		for _, u := range plan.Updates {
			if u.Failed {
				fmt.Printf("  ⚠️  %s: %s\n", u.Package, u.Error)
				continue
			}
			fmt.Printf("  %s: %s -> %s (%s, %s)\n", u.Package, u.CurrentVersion, u.NewVersion, u.BumpType, u.Reason)
		}
		if len(plan.Cycles) > 0 {
			fmt.Printf("\n🔁 Dependency cycles detected:\n")
			for _, c := range plan.Cycles {
				fmt.Printf("  - %v\n", c.Packages)
			}
		}

		modified, err := manifest.ModifiedPaths(plan, packagesByName)
		if err != nil {
			logger.Error("Failed to compute modified manifests", "error", err)
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n📦 Manifests to update: %d\n", len(modified))
		for _, p := range modified {
			fmt.Printf("  - %s\n", p)
		}

		if dryRun {
			fmt.Println("\n💡 Dry run: no files were written. Re-run without --dry-run to apply.")
			return
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			var confirm bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Apply version updates?").
						Description(fmt.Sprintf("This will update %d manifest(s) and write changelogs.", len(modified))).
						Value(&confirm),
				),
			)
			if err := form.Run(); err != nil {
				logger.Error("Failed to get user confirmation", "error", err)
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if !confirm {
				fmt.Println("Version resolution cancelled.")
				return
			}
		}

		written, err := manifest.WritePlan(plan, packagesByName)
		if err != nil {
			logger.Error("Failed to write manifests", "error", err)
			fmt.Printf("Error: Unable to write manifests: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n✅ Manifests updated: %d\n", len(written))

		grouping := changelog.GroupByType
		format := changelog.FormatMarkdown
		usePackagePaths := projectConfig.ShouldUsePackagePaths()
		defaultFilename := projectConfig.GetChangelogOutputPath()
		now := time.Now()

		var releasedEntries []changelog.Entry
		releasedSummaries := make(map[string]string)

		for _, u := range plan.Updates {
			if u.Failed {
				continue
			}
			pkg := packagesByName[u.Package]
			entry := changelog.Entry{
				PackageName:     u.Package,
				Version:         u.NewVersion,
				PreviousVersion: u.CurrentVersion,
				Date:            now,
				BumpType:        u.BumpType,
				Commits:         commitsByPackage[u.Package],
			}
			rendered, err := changelog.Render(entry, grouping, format)
			if err != nil {
				logger.Error("Failed to render changelog", "package", u.Package, "error", err)
				fmt.Printf("Error: Unable to render changelog for %s: %v\n", u.Package, err)
				os.Exit(1)
			}
			releasedEntries = append(releasedEntries, entry)
			releasedSummaries[u.Package] = rendered

			var changelogPath string
			if usePackagePaths && pkg != nil {
				changelogPath = filepath.Join(filepath.Dir(pkg.ManifestPath), defaultFilename)
			} else {
				changelogPath = filepath.Join(cwd, defaultFilename)
			}

			existing, _ := os.ReadFile(changelogPath)
			merged := changelog.MergeIntoExisting(string(existing), rendered)
			if err := os.WriteFile(changelogPath, []byte(merged), 0644); err != nil {
				logger.Error("Failed to write changelog", "package", u.Package, "path", changelogPath, "error", err)
				fmt.Printf("Error: Unable to write changelog for %s: %v\n", u.Package, err)
				os.Exit(1)
			}
			fmt.Printf("  📝 %s changelog: %s\n", u.Package, changelogPath)
		}
		if err := markChangesetsApplied(store, pending, plan); err != nil {
			logger.Error("Failed to mark changesets applied", "error", err)
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		commitMessage := "chore: release"
		if msg, err := changelog.MergeMessage(releasedEntries, releasedSummaries, changelog.MergeMessageOptions{IncludeBreakingWarning: true}); err == nil {
			commitMessage = msg
		} else {
			logger.Warn("Failed to render release commit message, falling back to default", "error", err)
		}

		gitTag, _ := cmd.Flags().GetBool("git-tag")
		gitCommit, _ := cmd.Flags().GetBool("git-commit")
		gitPush, _ := cmd.Flags().GetBool("git-push")
		if gitPush {
			gitCommit = true
			gitTag = true
		}

		if repoRoot, err := git.FindRepositoryRoot(cwd); err == nil && (gitCommit || gitTag) {
			paths := append([]string{}, written...)
			for _, u := range plan.Updates {
				if u.Failed {
					continue
				}
				if pkg := packagesByName[u.Package]; pkg != nil {
					changelogPath := filepath.Join(filepath.Dir(pkg.ManifestPath), defaultFilename)
					paths = append(paths, changelogPath)
				}
			}
			if gitCommit {
				if err := git.StageFiles(repoRoot, paths); err != nil {
					logger.Error("Failed to stage files for commit", "error", err)
					fmt.Printf("Warning: Failed to stage files: %v\n", err)
				} else if err := git.CreateCommit(repoRoot, commitMessage); err != nil {
					logger.Error("Failed to create release commit", "error", err)
					fmt.Printf("Warning: Failed to create release commit: %v\n", err)
				}
			}
			if gitTag {
				tags := make(map[string]string, len(plan.Updates))
				for _, u := range plan.Updates {
					if u.Failed {
						continue
					}
					tags[fmt.Sprintf("%s@%s", u.Package, u.NewVersion)] = fmt.Sprintf("%s %s", u.Package, u.NewVersion)
				}
				if err := git.CreateAnnotatedTags(repoRoot, tags); err != nil {
					logger.Error("Failed to create git tags", "error", err)
					fmt.Printf("Warning: Failed to create git tags: %v\n", err)
				}
			}
			if gitPush {
				fmt.Println("⚠️  --git-push requires a configured remote; push the commit and tags manually.")
			}
		} else if gitCommit || gitTag {
			fmt.Println("⚠️  Git repository not found - skipping git operations")
		}

		logger.Info("Version resolution completed successfully",
			"packages_updated", len(written),
			"changesets_applied", len(pending),
		)
	},
}

func init() {
	VersionCmd.Flags().Bool("dry-run", false, "Compute the plan and modified-file list without writing changes")
	VersionCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
	VersionCmd.Flags().StringP("package", "p", "", "Resolve and apply only to a specific package")
	VersionCmd.Flags().String("since", "", "Git ref to diff commits from for the commit-fallback signal (default: HEAD~1)")
	VersionCmd.Flags().Bool("snapshot", false, "Use snapshot versioning (append -0.<sha> instead of a normal bump)")

	VersionCmd.Flags().Bool("git-tag", false, "Create git tags for released versions")
	VersionCmd.Flags().Bool("git-commit", false, "Automatically commit changelog and manifest changes")
	VersionCmd.Flags().Bool("git-push", false, "Implies --git-commit and --git-tag (push itself is left to the caller)")
}
