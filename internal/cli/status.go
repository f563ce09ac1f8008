package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/monoship/monoship/internal/changelog"
	"github.com/monoship/monoship/internal/changeset"
	"github.com/monoship/monoship/internal/config"
	"github.com/monoship/monoship/internal/git"
	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/logger"
	"github.com/monoship/monoship/internal/model"
	"github.com/monoship/monoship/internal/resolve"
	"github.com/monoship/monoship/internal/workspace"
	"github.com/spf13/cobra"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending changesets and the version plan they would produce",
	Long:  "Display pending changesets and preview the version updates 'shipyard version' would apply, without writing anything.",
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

		packageFilter, _ := cmd.Flags().GetString("package")
		if packageFilter != "" {
			if _, ok := ws.GetPackage(packageFilter); !ok {
				logger.Error("Package not found", "package", packageFilter)
				fmt.Printf("Error: Package '%s' not found in workspace\n", packageFilter)
				os.Exit(1)
			}
		}

		fmt.Printf("📊 Shipyard Project Status\n")
		fmt.Printf("==========================\n\n")
		fmt.Printf("📁 Project Type: %s\n", projectConfig.Type)
		fmt.Printf("📦 Packages: %d\n", len(ws.Packages))
		fmt.Printf("\n")

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

		fmt.Printf("📋 Pending Changesets\n")
		fmt.Printf("=====================\n")
		if len(pending) == 0 {
			fmt.Println("No pending changesets found.")
			fmt.Println("Create one with 'shipyard add'.")
		} else {
			fmt.Printf("Total: %d\n\n", len(pending))
			for _, cs := range pending {
				fmt.Printf("• %s (Created: %s)\n", cs.ID, cs.CreatedAt.Format(time.RFC3339))
				fmt.Printf("  Package: %s (%s)\n", cs.Package, cs.Bump)
				fmt.Printf("  Summary: %s\n\n", cs.Summary)
			}
		}

		g, err := graph.Build(ws.Packages)
		if err != nil {
			logger.Error("Failed to build dependency graph", "error", err)
			fmt.Printf("Error: Unable to build dependency graph: %v\n", err)
			os.Exit(1)
		}

		var commitsByPackage map[string][]model.ConventionalCommit
		if root, err := git.FindRepositoryRoot(cwd); err == nil {
			commitsByPackage = buildCommitsByPackage(root, "", ws.Packages)
		} else {
			commitsByPackage = map[string][]model.ConventionalCommit{}
		}

		opts := resolve.ApplyResolutionConfig(resolve.Options{Strategy: resolve.Independent}, projectConfig.Resolution)
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

		fmt.Printf("🔖 Version Plan\n")
		fmt.Printf("===============\n")
		if len(plan.Updates) == 0 {
			fmt.Println("No version changes pending.")
		}
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
		if len(plan.ChangesetFailures) > 0 {
			fmt.Printf("\n⚠️  Changeset failures:\n")
			for _, f := range plan.ChangesetFailures {
				fmt.Printf("  - %s (%s): %s\n", f.ChangesetID, f.Package, f.Reason)
			}
		}

		releaseNotes, _ := cmd.Flags().GetBool("release-notes")
		if releaseNotes && len(plan.Updates) > 0 {
			fmt.Printf("\n📄 Release Notes Preview\n")
			fmt.Printf("========================\n\n")

			now := time.Now()
			for _, u := range plan.Updates {
				if u.Failed {
					continue
				}
				entry := changelog.Entry{
					PackageName:     u.Package,
					Version:         u.NewVersion,
					PreviousVersion: u.CurrentVersion,
					Date:            now,
					BumpType:        u.BumpType,
					Commits:         commitsByPackage[u.Package],
				}
				rendered, err := changelog.Render(entry, changelog.GroupByType, changelog.FormatMarkdown)
				if err != nil {
					logger.Error("Failed to render changelog", "package", u.Package, "error", err)
					fmt.Printf("Error: Unable to render changelog for %s: %v\n", u.Package, err)
					os.Exit(1)
				}

				raw, _ := cmd.Flags().GetBool("raw")
				if raw {
					fmt.Print(rendered)
				} else if md, err := renderMarkdown(rendered); err == nil {
					fmt.Print(md)
				} else {
					fmt.Print(rendered)
				}
			}
		}

		fmt.Printf("\n💡 Next steps:\n")
		fmt.Printf("   - Run 'shipyard version --dry-run' to preview manifest and changelog writes\n")
		fmt.Printf("   - Run 'shipyard version' to apply version updates and write changelogs\n")

		logger.Info("Status command completed successfully",
			"pending_changesets", len(pending),
			"planned_updates", len(plan.Updates),
		)
	},
}

func init() {
	StatusCmd.Flags().StringP("package", "p", "", "Show status for a specific package only")
	StatusCmd.Flags().Bool("release-notes", false, "Render a preview of the changelog entries the plan would produce")
	StatusCmd.Flags().Bool("raw", false, "Show raw markdown instead of rendered output (use with --release-notes)")
}
