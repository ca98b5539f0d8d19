package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackmott/inkwell/internal/config"
	inkerrors "github.com/jackmott/inkwell/internal/errors"
	"github.com/jackmott/inkwell/internal/registry"
	"github.com/jackmott/inkwell/internal/scanner"
)

// Render cache bounds shared by build, serve, and watch.
const (
	cacheSizeBytes = 64 << 20
	cacheTTL       = time.Hour
)

// scanPosts walks every configured post directory into a fresh registry.
// Per-file problems land in the returned collector.
func scanPosts(ctx context.Context, cfg *config.Config) (*registry.PostRegistry, *inkerrors.ErrorCollector, error) {
	reg := registry.NewPostRegistry()
	collector, err := scanInto(ctx, cfg, reg)
	if err != nil {
		return nil, nil, err
	}
	return reg, collector, nil
}

// scanInto rescans the configured post directories into an existing
// registry, refreshing changed posts in place. serve and watch keep one
// registry alive across rebuilds so its subscribers see the changes.
func scanInto(ctx context.Context, cfg *config.Config, reg *registry.PostRegistry) (*inkerrors.ErrorCollector, error) {
	postScanner := scanner.NewPostScanner(reg,
		scanner.WithExcludePatterns(cfg.Content.ExcludePatterns),
		scanner.WithWorkers(cfg.Build.Workers),
	)

	combined := inkerrors.NewErrorCollector()
	for _, dir := range cfg.Content.PostDirs {
		collector, err := postScanner.ScanDirectory(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, be := range collector.GetErrors() {
			combined.Add(be)
		}
	}

	return combined, nil
}

// printCollector writes every collected problem to stderr and reports
// whether any of them were errors rather than warnings.
func printCollector(collector *inkerrors.ErrorCollector) bool {
	for _, be := range collector.GetErrors() {
		fmt.Fprintf(os.Stderr, "  %s\n", be.Error())
	}
	return collector.HasErrors()
}
