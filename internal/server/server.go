// Package server implements the preview server: it serves the generated site
// from the output directory, watches sources for changes, rebuilds, and pushes
// reload notifications to connected browsers over a WebSocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/jackmott/inkwell/internal/build"
	"github.com/jackmott/inkwell/internal/config"
	"github.com/jackmott/inkwell/internal/content"
	"github.com/jackmott/inkwell/internal/logging"
	"github.com/jackmott/inkwell/internal/registry"
	"github.com/jackmott/inkwell/internal/types"
	"github.com/jackmott/inkwell/internal/version"
	"github.com/jackmott/inkwell/internal/watcher"
)

// registryQuietWindow is how long the registry must stay quiet after a burst
// of post events before one coalesced reload goes out.
const registryQuietWindow = 200 * time.Millisecond

// RebuildFunc regenerates the site. The server calls it once before serving
// and again after every debounced batch of source changes.
type RebuildFunc func(ctx context.Context) error

// Client represents a WebSocket client
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

// PreviewServer serves the built site with live reload capability
type PreviewServer struct {
	config       *config.Config
	logger       logging.Logger
	registry     *registry.PostRegistry
	cache        *build.RenderCache
	rebuild      RebuildFunc
	httpServer   *http.Server
	serverMutex  sync.RWMutex
	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn
	watcher      *watcher.FileWatcher
	postEvents   <-chan types.PostEvent
	shutdownOnce sync.Once
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new preview server. The registry is the same one the rebuild
// function scans into; the server subscribes to its post events and prunes it
// when source files disappear. The cache may be nil.
func New(cfg *config.Config, logger logging.Logger, reg *registry.PostRegistry, cache *build.RenderCache, rebuild RebuildFunc) (*PreviewServer, error) {
	fileWatcher, err := watcher.NewFileWatcher(300 * time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &PreviewServer{
		config:     cfg,
		logger:     logger.WithComponent("server"),
		registry:   reg,
		cache:      cache,
		rebuild:    rebuild,
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		watcher:    fileWatcher,
	}, nil
}

// Start runs the preview server until ListenAndServe returns or Shutdown is
// called.
func (s *PreviewServer) Start(ctx context.Context) error {
	if s.rebuild != nil {
		if err := s.rebuild(ctx); err != nil {
			s.logger.Error(ctx, err, "Initial build failed")
		}
	}

	// Subscribe after the initial build so the first scan's burst of added
	// events does not push a reload at nobody.
	if s.registry != nil {
		s.postEvents = s.registry.Watch()
		go s.watchRegistry(ctx, s.postEvents)
	}

	s.setupFileWatcher(ctx)

	go s.runWebSocketHub(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleSite)

	handler := s.addMiddleware(mux)
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	if s.config.Server.Open {
		go s.openBrowser(fmt.Sprintf("http://%s", addr))
	}

	s.logger.Info(ctx, "Preview server listening", "addr", addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) {
	s.watcher.AddFilter(watcher.ContentFilter)
	s.watcher.AddFilter(watcher.NoHiddenFilter)
	s.watcher.AddFilter(watcher.NoOutputFilter(s.config.Build.OutputDir))

	s.watcher.AddHandler(s.handleFileChange)

	watchPaths := append([]string{}, s.config.Content.PostDirs...)
	watchPaths = append(watchPaths, s.config.Content.LayoutsDir)
	for _, path := range watchPaths {
		if err := s.watcher.AddRecursive(path); err != nil {
			s.logger.Warn(ctx, err, "Failed to watch path", "path", path)
		}
	}

	if err := s.watcher.Start(ctx); err != nil {
		s.logger.Error(ctx, err, "Failed to start file watcher")
	}
}

func (s *PreviewServer) handleFileChange(events []watcher.ChangeEvent) error {
	ctx := context.Background()

	postsOnly := true
	for _, event := range events {
		s.logger.Debug(ctx, "File changed", "path", event.Path, "type", event.Type.String())

		if !content.IsPostFile(event.Path) {
			postsOnly = false
			continue
		}
		if event.Type == watcher.EventTypeDeleted || event.Type == watcher.EventTypeRenamed {
			if s.registry != nil {
				s.registry.RemoveBySourcePath(event.Path)
			}
			if s.cache != nil {
				s.cache.Invalidate(event.Path)
			}
		}
	}

	if s.rebuild != nil {
		if err := s.rebuild(ctx); err != nil {
			s.broadcastMessage(UpdateMessage{
				Type:      "build_error",
				Content:   err.Error(),
				Timestamp: time.Now(),
			})
			return err
		}
	}

	// Post changes reach the browser through the registry subscription; a
	// direct push here covers layout and asset edits, which register nothing.
	if !postsOnly || s.registry == nil {
		s.broadcastMessage(UpdateMessage{
			Type:      "reload",
			Timestamp: time.Now(),
		})
	}
	return nil
}

// watchRegistry pushes a reload after each burst of post events. A rebuild
// re-registers every scanned post, so events are coalesced until the
// registry goes quiet.
func (s *PreviewServer) watchRegistry(ctx context.Context, events <-chan types.PostEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			s.drainPostEvents(events)
			s.broadcastMessage(UpdateMessage{
				Type:      "reload",
				Timestamp: time.Now(),
			})
		}
	}
}

// drainPostEvents swallows follow-up events until the quiet window elapses.
func (s *PreviewServer) drainPostEvents(events <-chan types.PostEvent) {
	timer := time.NewTimer(registryQuietWindow)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(registryQuietWindow)
		case <-timer.C:
			return
		}
	}
}

func (s *PreviewServer) openBrowser(url string) {
	time.Sleep(100 * time.Millisecond) // Give server time to start

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		s.logger.Warn(context.Background(), err, "Failed to open browser")
	}
}

func (s *PreviewServer) addMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		handler.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func (s *PreviewServer) broadcastMessage(msg UpdateMessage) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		// Fallback to a bare reload so the browser still refreshes
		jsonData = []byte(`{"type":"reload"}`)
	}

	select {
	case s.broadcast <- jsonData:
	default:
		// No hub running, or backlog full
	}
}

// Shutdown gracefully shuts down the server and cleans up resources
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down preview server")

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		if s.registry != nil && s.postEvents != nil {
			s.registry.UnWatch(s.postEvents)
		}

		s.clientsMutex.Lock()
		for conn, client := range s.clients {
			close(client.send)
			conn.Close(websocket.StatusNormalClosure, "")
		}
		s.clients = make(map[*websocket.Conn]*Client)
		s.clientsMutex.Unlock()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}

// handleHealth returns the server health status for health checks
func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.clientsMutex.RLock()
	clientCount := len(s.clients)
	s.clientsMutex.RUnlock()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"checks": map[string]interface{}{
			"server":  map[string]interface{}{"status": "healthy", "message": "HTTP server operational"},
			"watcher": map[string]interface{}{"status": "healthy", "message": "File watcher operational"},
			"clients": map[string]interface{}{"status": "healthy", "connected": clientCount},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to encode health response")
	}
}
