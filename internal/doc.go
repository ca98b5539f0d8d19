// Package internal contains the core implementation packages for inkwell.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the inkwell CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - build: Render cache with LRU eviction and TTL expiry
//   - config: Configuration management with validation
//   - content: Front matter parsing, date handling, and post filenames
//   - errors: Build error collection with severity levels
//   - lint: Content validation for posts before publishing
//   - registry: Post registry and event broadcasting
//   - renderer: Markdown rendering with syntax highlighting
//   - scaffolding: Site and post skeleton generation
//   - scanner: Post discovery and parsing with worker pools
//   - server: Preview HTTP server with WebSocket live reload
//   - site: Page assembly, pagination, feeds, and sitemap
//   - watcher: File system monitoring with debouncing
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - Registry holds parsed posts and broadcasts change events
//   - Scanner processes source files and populates the registry
//   - Site builder consumes the registry and writes output pages
//   - Watcher monitors the file system and triggers rebuilds
//   - Server coordinates rebuilds and pushes reloads to browsers
//
// For detailed documentation, see the individual package documentation.
package internal
