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
	"github.com/jackmott/inkwell/internal/server"
	"github.com/jackmott/inkwell/internal/site"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Preview the site with live reload",
	Long: `Build the site, serve it locally, and rebuild whenever a post or layout
changes. Connected browsers reload automatically over a WebSocket.

Examples:
  inkwell serve                   # Serve on localhost:4000
  inkwell serve --port 8080       # Serve on a different port
  inkwell serve --drafts          # Include draft posts in the preview
  inkwell serve --open            # Open the browser after starting`,
	RunE: runServe,
}

var (
	servePort   int
	serveHost   string
	serveOpen   bool
	serveDrafts bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to serve on")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open browser after starting")
	serveCmd.Flags().BoolVar(&serveDrafts, "drafts", false, "Include draft posts")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if serveOpen {
		cfg.Server.Open = true
	}
	if serveDrafts {
		cfg.Build.Drafts = true
	}

	// One registry and cache across rebuilds: the server subscribes to the
	// registry's post events for its reload pushes, and unchanged posts
	// skip Markdown rendering.
	reg := registry.NewPostRegistry()
	cache := build.NewRenderCache(cacheSizeBytes, cacheTTL)

	rebuild := func(ctx context.Context) error {
		scanProblems, err := scanInto(ctx, cfg, reg)
		if err != nil {
			return err
		}
		if printCollector(scanProblems) {
			return fmt.Errorf("scan failed")
		}

		builder, err := site.NewBuilder(cfg, reg, cache, logger)
		if err != nil {
			return err
		}

		result, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		if printCollector(result.Collector) {
			return fmt.Errorf("build completed with errors")
		}

		fmt.Printf("Rebuilt %d posts, %d pages\n", result.Posts, result.Pages)
		return nil
	}

	srv, err := server.New(cfg, logger, reg, cache, rebuild)
	if err != nil {
		return fmt.Errorf("failed to create preview server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		cancel()
	}()

	fmt.Printf("Serving on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return srv.Start(ctx)
}
