// Package config provides configuration management for inkwell using Viper
// for flexible configuration loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the INKWELL_ prefix, and validation. It manages site
// metadata, content scanning paths, build output settings, preview server
// settings, Markdown rendering options, and feed generation.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	Build    BuildConfig    `yaml:"build"`
	Server   ServerConfig   `yaml:"server"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Feed     FeedConfig     `yaml:"feed"`
}

// SiteConfig describes the site itself; its fields feed layout templates and
// the feed/sitemap generators.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Author      string `yaml:"author"`
	Email       string `yaml:"email"`
}

// ContentConfig controls post discovery.
type ContentConfig struct {
	// PostDirs are the directories scanned for Markdown posts
	PostDirs []string `yaml:"post_dirs"`
	// StaticDir holds assets copied verbatim into the output (images etc.)
	StaticDir string `yaml:"static_dir"`
	// LayoutsDir holds the site's layout template overrides
	LayoutsDir string `yaml:"layouts_dir"`
	// ExcludePatterns are doublestar globs skipped during scanning
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// BuildConfig controls output emission.
type BuildConfig struct {
	OutputDir string `yaml:"output_dir"`
	CacheDir  string `yaml:"cache_dir"`
	// Workers bounds render concurrency; 0 means NumCPU
	Workers int `yaml:"workers"`
	// PostsPerPage controls index pagination
	PostsPerPage int  `yaml:"posts_per_page"`
	Drafts       bool `yaml:"drafts"`
	Future       bool `yaml:"future"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	Open bool   `yaml:"open"`
}

// MarkdownConfig controls the goldmark renderer.
type MarkdownConfig struct {
	// CodeStyle names the chroma style used for fenced code blocks
	CodeStyle string `yaml:"code_style"`
	HardWraps bool   `yaml:"hard_wraps"`
	// Unsafe permits raw HTML in post bodies; the corpus relies on it
	Unsafe bool `yaml:"unsafe"`
}

type FeedConfig struct {
	Enabled bool `yaml:"enabled"`
	// Limit caps the number of items emitted into the RSS/Atom feeds
	Limit int `yaml:"limit"`
}

func Load() (*Config, error) {
	var config Config
	// Decode against the yaml tags so multi-word keys (post_dirs,
	// output_dir) map without a parallel mapstructure tag set
	err := viper.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return nil, err
	}

	// Apply defaults for content paths only if not explicitly set
	if !viper.IsSet("content.post_dirs") && len(config.Content.PostDirs) == 0 {
		config.Content.PostDirs = []string{"_posts"}
	}

	// Handle post_dirs set via viper (workaround for viper slice handling)
	if viper.IsSet("content.post_dirs") && len(config.Content.PostDirs) == 0 {
		postDirs := viper.GetStringSlice("content.post_dirs")
		if len(postDirs) > 0 {
			config.Content.PostDirs = postDirs
		}
	}
	if viper.IsSet("content.exclude_patterns") && len(config.Content.ExcludePatterns) == 0 {
		excludePatterns := viper.GetStringSlice("content.exclude_patterns")
		if len(excludePatterns) > 0 {
			config.Content.ExcludePatterns = excludePatterns
		}
	}

	if config.Content.StaticDir == "" {
		config.Content.StaticDir = "images"
	}
	if config.Content.LayoutsDir == "" {
		config.Content.LayoutsDir = "_layouts"
	}
	if len(config.Content.ExcludePatterns) == 0 {
		config.Content.ExcludePatterns = []string{"**/draft-*", "**/*.bak"}
	}

	// Apply default values for BuildConfig if not set
	if config.Build.OutputDir == "" {
		config.Build.OutputDir = "_site"
	}
	if config.Build.CacheDir == "" {
		config.Build.CacheDir = ".inkwell/cache"
	}
	if config.Build.PostsPerPage == 0 {
		config.Build.PostsPerPage = 10
	}
	if viper.IsSet("build.drafts") {
		config.Build.Drafts = viper.GetBool("build.drafts")
	}
	if viper.IsSet("build.future") {
		config.Build.Future = viper.GetBool("build.future")
	}

	if config.Server.Port == 0 {
		config.Server.Port = 4000
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if config.Markdown.CodeStyle == "" {
		config.Markdown.CodeStyle = "monokai"
	}
	// Raw HTML stays on unless the config switches it off explicitly; posts
	// in the wild embed <img> and <table> markup directly.
	if !viper.IsSet("markdown.unsafe") {
		config.Markdown.Unsafe = true
	}

	if !viper.IsSet("feed.enabled") {
		config.Feed.Enabled = true
	}
	if config.Feed.Limit == 0 {
		config.Feed.Limit = 20
	}

	// Validate configuration values
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}
	if err := validateContentConfig(&config.Content); err != nil {
		return fmt.Errorf("content config: %w", err)
	}
	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validateBuildConfig validates build configuration values
func validateBuildConfig(config *BuildConfig) error {
	if config.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", config.Workers)
	}
	if config.PostsPerPage < 1 {
		return fmt.Errorf("posts_per_page must be at least 1, got %d", config.PostsPerPage)
	}

	for name, dir := range map[string]string{"output_dir": config.OutputDir, "cache_dir": config.CacheDir} {
		if dir == "" {
			continue
		}
		cleanPath := filepath.Clean(dir)
		if strings.Contains(cleanPath, "..") {
			return fmt.Errorf("%s contains path traversal: %s", name, dir)
		}
		if filepath.IsAbs(cleanPath) {
			return fmt.Errorf("%s should be relative path: %s", name, dir)
		}
	}

	return nil
}

// validateContentConfig validates content configuration values
func validateContentConfig(config *ContentConfig) error {
	for _, path := range config.PostDirs {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid post dir '%s': %w", path, err)
		}
	}
	if config.StaticDir != "" {
		if err := validatePath(config.StaticDir); err != nil {
			return fmt.Errorf("invalid static dir '%s': %w", config.StaticDir, err)
		}
	}
	if config.LayoutsDir != "" {
		if err := validatePath(config.LayoutsDir); err != nil {
			return fmt.Errorf("invalid layouts dir '%s': %w", config.LayoutsDir, err)
		}
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
