package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackmott/inkwell/internal/lint"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Lint posts without building",
	Long: `Check every post for problems a build would hit or publish: broken front
matter, missing titles, filename/date drift, empty categories, unterminated
code fences, and image references that point nowhere.

Examples:
  inkwell validate                # Warnings are reported but do not fail
  inkwell validate --strict       # Warnings fail the run too`,
	RunE: runValidate,
}

var validateStrict bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	linter := lint.NewLinter(".", validateStrict)

	total := 0
	failed := false
	for _, dir := range cfg.Content.PostDirs {
		collector, err := linter.LintDirectory(dir)
		if err != nil {
			return fmt.Errorf("failed to lint %s: %w", dir, err)
		}

		for _, be := range collector.GetErrors() {
			fmt.Fprintf(os.Stderr, "%s\n", be.Error())
		}
		total += collector.Count()
		if collector.HasErrors() {
			failed = true
		}
	}

	if total == 0 {
		fmt.Println("All posts are valid.")
		return nil
	}

	warnings := total
	if failed {
		return fmt.Errorf("validation failed with %d problem(s)", total)
	}
	fmt.Printf("%d warning(s), no errors.\n", warnings)
	return nil
}
