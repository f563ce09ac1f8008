package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/monoship/monoship/internal/changeset"
	"github.com/monoship/monoship/internal/config"
	"github.com/monoship/monoship/internal/git"
	"github.com/monoship/monoship/internal/logger"
	"github.com/monoship/monoship/internal/model"
	"github.com/monoship/monoship/internal/workspace"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// changesetDir is the changeset store's default location under the project root.
const changesetDir = ".shipyard/changesets"

// isStdinPiped checks if stdin is being piped
func isStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdinLine reads a single line from stdin
func readStdinLine() (string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no input available")
}

// currentAuthorAndBranch resolves the changeset's author/branch fields from
// the enclosing git repository, falling back to an unknown author and an
// empty branch when there is none — these fields are informational and
// aren't validated against a repository.
func currentAuthorAndBranch(cwd string) (author, branch string) {
	author = os.Getenv("USER")
	if author == "" {
		author = "unknown"
	}

	root, err := git.FindRepositoryRoot(cwd)
	if err != nil {
		return author, ""
	}
	branch, err = git.CurrentBranch(root)
	if err != nil {
		return author, ""
	}
	return author, branch
}

var AddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"create", "new", "a"},
	Short:   "Add a new changeset",
	Long:    `Create a new changeset to describe changes made to packages. This is used to track changes for release management.`,
	Example: `
shipyard add
shipyard add --type patch
shipyard add --summary "Fixed bug"
shipyard add --package api --type patch
shipyard add --type patch --summary "Fixed bug"
shipyard add --package api --type patch --summary "Fixed bug"
echo "Fixed bug" | shipyard add --type patch
echo "patch" | shipyard add --summary "Fixed bug"
echo "1" | shipyard add --summary "Fixed bug"
`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load project configuration (change-type catalog; package listing
		// comes from the actual workspace, not the config file, since a
		// package name must name an actual workspace member).
		projectConfig, err := config.LoadProjectConfig()
		if err != nil {
			logger.Error("Failed to load project configuration", "error", err)
			fmt.Println("Error: Unable to load project configuration.")
			fmt.Println("Make sure you're in a Shipyard project directory and run 'shipyard init' if needed.")
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
			fmt.Println("Make sure you're in a Shipyard project directory and run 'shipyard init' if needed.")
			os.Exit(1)
		}

		var (
			selectedPackages []string
			changeType       string
			summary          string
		)

		packageFlag, _ := cmd.Flags().GetStringSlice("package")
		typeFlag, _ := cmd.Flags().GetString("type")
		summaryFlag, _ := cmd.Flags().GetString("summary")

		if len(ws.Packages) == 0 {
			fmt.Println("No packages found in this workspace.")
			fmt.Println("Please run 'shipyard init' to configure your packages.")
			os.Exit(1)
		}

		if len(ws.Packages) == 1 && len(packageFlag) == 0 {
			packageFlag = []string{ws.Packages[0].Name}
		}

		if len(packageFlag) > 0 {
			// Packages provided via flag - validate them against the workspace
			for _, name := range packageFlag {
				if _, ok := ws.GetPackage(name); !ok {
					fmt.Printf("Error: Package '%s' not found in workspace\n", name)
					fmt.Println("Available packages:")
					for _, pkg := range ws.Packages {
						fmt.Printf("  - %s (%s)\n", pkg.Name, pkg.RelPath)
					}
					os.Exit(1)
				}
			}
			selectedPackages = packageFlag
		} else if len(ws.Packages) > 1 {
			// No packages provided via flag - prompt for selection
			packageOptions := make([]huh.Option[string], 0, len(ws.Packages))
			for _, pkg := range ws.Packages {
				packageOptions = append(packageOptions, huh.NewOption(fmt.Sprintf("%s (%s)", pkg.Name, pkg.RelPath), pkg.Name))
			}

			packageForm := huh.NewForm(
				huh.NewGroup(
					huh.NewNote().
						Title("📦 Package Selection").
						Description("Select the packages that have been changed."),
					huh.NewMultiSelect[string]().
						Title("Which packages have changed?").
						Description("Select all packages that have been modified.").
						Options(packageOptions...).
						Value(&selectedPackages),
				),
			)

			if err := packageForm.Run(); err != nil {
				logger.Error("Failed to get package selection", "error", err)
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			if len(selectedPackages) == 0 {
				fmt.Println("No packages selected. Changeset creation cancelled.")
				return
			}
		} else {
			selectedPackages = []string{ws.Packages[0].Name}
		}

		// Change type selection with prompt builder approach
		if typeFlag != "" {
			changeType = typeFlag
			if projectConfig.GetChangeTypeByName(changeType) == nil {
				fmt.Printf("Error: invalid change type %q\n", changeType)
				fmt.Println("Available change types:")
				for _, ct := range projectConfig.GetChangeTypes() {
					displayName := ct.DisplayName
					if displayName == "" {
						displayName = ct.Name
					}
					fmt.Printf("  - %s (%s)\n", ct.Name, displayName)
				}
				os.Exit(1)
			}
		} else {
			if isStdinPiped() {
				input, err := readStdinLine()
				if err != nil {
					fmt.Println("Error: No change type provided and unable to read from stdin")
					fmt.Println("Available change types:")
					for i, ct := range projectConfig.GetChangeTypes() {
						fmt.Printf("  %d. %s\n", i+1, ct.Name)
					}
					fmt.Println("Usage: echo '<type-name-or-number>' | shipyard add --summary 'your summary'")
					os.Exit(1)
				}

				changeTypes := projectConfig.GetChangeTypes()
				if input >= "1" && input <= fmt.Sprintf("%d", len(changeTypes)) {
					if num := int(input[0] - '0'); num >= 1 && num <= len(changeTypes) {
						changeType = changeTypes[num-1].Name
					}
				} else {
					changeType = input
				}

				if projectConfig.GetChangeTypeByName(changeType) == nil {
					fmt.Printf("Error: invalid change type %q\n", changeType)
					fmt.Println("Available change types:")
					for i, ct := range changeTypes {
						fmt.Printf("  %d. %s\n", i+1, ct.Name)
					}
					os.Exit(1)
				}
			} else {
				changeTypeOptions := make([]huh.Option[string], 0, len(projectConfig.GetChangeTypes()))
				for _, ct := range projectConfig.GetChangeTypes() {
					optionText := ct.DisplayName
					if optionText == "" {
						optionText = ct.Name
					}
					changeTypeOptions = append(changeTypeOptions, huh.NewOption(optionText, ct.Name))
				}

				changeTypeForm := huh.NewForm(
					huh.NewGroup(
						huh.NewNote().
							Title("📝 Change Type").
							Description("Select the type of change you've made."),
						huh.NewSelect[string]().
							Title("What type of change is this?").
							Description("Choose the appropriate change type.").
							Options(changeTypeOptions...).
							Value(&changeType),
					),
				)

				if err := changeTypeForm.Run(); err != nil {
					logger.Error("Failed to get change type", "error", err)
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}
			}
		}

		// Summary input with prompt builder approach
		if summaryFlag != "" {
			summary = summaryFlag
			if strings.TrimSpace(summary) == "" {
				fmt.Println("Error: --summary flag cannot be empty")
				os.Exit(1)
			}
		} else {
			if isStdinPiped() {
				input, err := readStdinLine()
				if err != nil {
					fmt.Println("Error: No summary provided and unable to read from stdin")
					fmt.Println("Usage: echo 'your summary' | shipyard add --type <type>")
					os.Exit(1)
				}

				summary = input
				if strings.TrimSpace(summary) == "" {
					fmt.Println("Error: Summary cannot be empty")
					os.Exit(1)
				}
			} else {
				summaryForm := huh.NewForm(
					huh.NewGroup(
						huh.NewNote().
							Title("📋 Change Summary").
							Description("Provide a summary of the changes made."),
						huh.NewText().
							Title("Summary").
							Description("Describe the changes made to the selected packages.").
							Placeholder("e.g. Fixed bug in user authentication flow").
							Value(&summary),
					),
				)

				if err := summaryForm.Run(); err != nil {
					logger.Error("Failed to get change summary", "error", err)
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}
			}
		}

		bump := model.BumpType(projectConfig.GetChangeTypeByName(changeType).SemverBump)
		author, branch := currentAuthorAndBranch(cwd)

		store := changeset.NewStore(filepath.Join(cwd, changesetDir))
		created := make([]*model.Changeset, 0, len(selectedPackages))
		for _, pkgName := range selectedPackages {
			cs, err := changeset.New(pkgName, bump, summary, author, branch)
			if err != nil {
				logger.Error("Failed to build changeset", "package", pkgName, "error", err)
				fmt.Printf("Error: Unable to create changeset for package '%s': %v\n", pkgName, err)
				os.Exit(1)
			}
			if err := store.Save(cs); err != nil {
				logger.Error("Failed to save changeset", "package", pkgName, "error", err)
				fmt.Printf("Error: Unable to save changeset for package '%s': %v\n", pkgName, err)
				os.Exit(1)
			}
			created = append(created, cs)
		}

		fmt.Printf("\n🎉 Changeset created successfully!\n")
		for _, cs := range created {
			fmt.Printf("📄 Changeset: %s (in %s)\n", cs.ID, changesetDir)
		}
		fmt.Printf("📦 Packages: %s\n", strings.Join(selectedPackages, ", "))
		fmt.Printf("🔄 Type: %s\n", changeType)
		fmt.Printf("📝 Summary: %s\n", summary)
		fmt.Printf("\n💡 Next steps:\n")
		fmt.Printf("   - Review the changeset file(s)\n")
		fmt.Printf("   - Commit the changeset(s) to your repository\n")
		fmt.Printf("   - Run 'shipyard version' to calculate new versions\n")

		logger.Info("Changeset created successfully",
			"packages", selectedPackages,
			"type", changeType,
		)
	},
}

func init() {
	AddCmd.Flags().StringSliceP("package", "p", []string{}, "Package(s) to include in the changeset (optional - will prompt if not provided for monorepo)")
	AddCmd.Flags().StringP("type", "t", "", "Change type (optional - will prompt if not provided)")
	AddCmd.Flags().StringP("summary", "s", "", "Summary of the changes (optional - will prompt if not provided)")
	AddCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts (currently unused but reserved for future use)")
}
