package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackmott/inkwell/internal/build"
	"github.com/jackmott/inkwell/internal/site"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Generate the static site",
	Long: `Generate the full static site into the output directory: a permalink page
per post, paginated index pages, per-category listings, RSS and Atom feeds,
and a sitemap.

Examples:
  inkwell build                   # Generate into _site/
  inkwell build --output public   # Generate into a different directory
  inkwell build --clean           # Remove stale output first
  inkwell build --drafts          # Include draft posts
  inkwell build --future          # Include future-dated posts
  inkwell build --strict          # Treat content warnings as errors`,
	RunE: runBuild,
}

var (
	buildOutput string
	buildClean  bool
	buildDrafts bool
	buildFuture bool
	buildStrict bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove the output directory before building")
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "Include draft posts")
	buildCmd.Flags().BoolVar(&buildFuture, "future", false, "Include future-dated posts")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Treat warnings as errors")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if buildOutput != "" {
		cfg.Build.OutputDir = buildOutput
	}
	if buildDrafts {
		cfg.Build.Drafts = true
	}
	if buildFuture {
		cfg.Build.Future = true
	}

	if buildClean {
		if err := os.RemoveAll(cfg.Build.OutputDir); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	ctx := cmd.Context()

	fmt.Println("Scanning posts...")
	reg, scanProblems, err := scanPosts(ctx, cfg)
	if err != nil {
		return err
	}
	if scanProblems.Count() > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) while scanning:\n", scanProblems.Count())
		if printCollector(scanProblems) {
			return fmt.Errorf("scan failed")
		}
	}

	if reg.Count() == 0 {
		fmt.Println("No posts found.")
		return nil
	}
	fmt.Printf("Found %d posts\n", reg.Count())

	cache := build.NewRenderCache(cacheSizeBytes, cacheTTL)
	builder, err := site.NewBuilder(cfg, reg, cache, logger)
	if err != nil {
		return fmt.Errorf("failed to create site builder: %w", err)
	}

	result, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if result.Collector.Count() > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) during build:\n", result.Collector.Count())
		hadErrors := printCollector(result.Collector)
		if hadErrors || (buildStrict && result.Collector.HasWarnings()) {
			return fmt.Errorf("build completed with errors")
		}
	}

	fmt.Printf("Build completed in %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("   - %d posts rendered, %d pages written\n", result.Posts, result.Pages)
	if result.Skipped > 0 {
		fmt.Printf("   - %d posts skipped (drafts or future-dated)\n", result.Skipped)
	}
	fmt.Printf("   - Output written to: %s\n", cfg.Build.OutputDir)

	return nil
}
