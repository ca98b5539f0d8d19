package server

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// liveReloadScript is injected into every served HTML page. It reconnects
// with backoff so a server restart does not strand the tab.
const liveReloadScript = `<script>
(function() {
	var retries = 0;
	function connect() {
		var ws = new WebSocket("ws://" + location.host + "/ws");
		ws.onmessage = function(ev) {
			var msg = JSON.parse(ev.data);
			if (msg.type === "reload") {
				location.reload();
			} else if (msg.type === "build_error") {
				console.error("build failed:", msg.content);
			}
		};
		ws.onclose = function() {
			retries++;
			setTimeout(connect, Math.min(1000 * retries, 5000));
		};
		ws.onopen = function() { retries = 0; };
	}
	connect();
})();
</script>`

// handleSite serves files from the build output directory, injecting the
// live-reload script into HTML responses.
func (s *PreviewServer) handleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, ok := s.resolveSitePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if filepath.Ext(path) != ".html" {
		http.ServeFile(w, r, path)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(injectLiveReload(content)); err != nil {
		s.logger.Debug(r.Context(), "Failed to write response", "path", r.URL.Path)
	}
}

// resolveSitePath maps a URL path onto a file inside the output directory,
// refusing anything that escapes it.
func (s *PreviewServer) resolveSitePath(urlPath string) (string, bool) {
	cleaned := filepath.Clean("/" + urlPath)
	if strings.Contains(cleaned, "..") {
		return "", false
	}

	root := filepath.Clean(s.config.Build.OutputDir)
	path := filepath.Join(root, cleaned)

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		path = filepath.Join(path, "index.html")
		info, err = os.Stat(path)
	}
	if err != nil || info.IsDir() {
		return "", false
	}

	return path, true
}

// injectLiveReload inserts the reload script before </body>, or appends it
// when the page has no body close tag.
func injectLiveReload(html []byte) []byte {
	idx := bytes.LastIndex(html, []byte("</body>"))
	if idx < 0 {
		return append(html, []byte(liveReloadScript)...)
	}

	out := make([]byte, 0, len(html)+len(liveReloadScript))
	out = append(out, html[:idx]...)
	out = append(out, []byte(liveReloadScript)...)
	out = append(out, html[idx:]...)
	return out
}
