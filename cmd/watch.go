package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackmott/inkwell/internal/build"
	"github.com/jackmott/inkwell/internal/registry"
	"github.com/jackmott/inkwell/internal/site"
	"github.com/jackmott/inkwell/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Rebuild the site on every source change",
	Long: `Watch post and layout directories and regenerate the site whenever a
source file changes. Like serve, but without the HTTP server; useful when
another tool already serves the output directory.

Examples:
  inkwell watch                   # Rebuild on changes
  inkwell watch --drafts          # Include draft posts`,
	RunE: runWatch,
}

var watchDrafts bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchDrafts, "drafts", false, "Include draft posts")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDrafts {
		cfg.Build.Drafts = true
	}

	// One registry and cache across rebuilds, pruned when files disappear
	reg := registry.NewPostRegistry()
	cache := build.NewRenderCache(cacheSizeBytes, cacheTTL)

	rebuild := func(ctx context.Context) error {
		start := time.Now()

		scanProblems, err := scanInto(ctx, cfg, reg)
		if err != nil {
			return err
		}
		printCollector(scanProblems)

		builder, err := site.NewBuilder(cfg, reg, cache, logger)
		if err != nil {
			return err
		}

		result, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		printCollector(result.Collector)

		fmt.Printf("Rebuilt %d posts, %d pages in %v\n",
			result.Posts, result.Pages, time.Since(start).Round(time.Millisecond))
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := rebuild(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Initial build failed: %v\n", err)
	}

	fw, err := watcher.NewFileWatcher(300 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(watcher.ContentFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoOutputFilter(cfg.Build.OutputDir))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			fmt.Printf("Changed: %s (%s)\n", event.Path, event.Type)
			if event.Type == watcher.EventTypeDeleted || event.Type == watcher.EventTypeRenamed {
				reg.RemoveBySourcePath(event.Path)
				cache.Invalidate(event.Path)
			}
		}
		if err := rebuild(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
		}
		return nil
	})

	watchPaths := append([]string{}, cfg.Content.PostDirs...)
	watchPaths = append(watchPaths, cfg.Content.LayoutsDir)
	for _, path := range watchPaths {
		if err := fw.AddRecursive(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot watch %s: %v\n", path, err)
		}
	}

	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Println("Watching for changes. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	fmt.Println("\nStopping watcher...")

	return nil
}
