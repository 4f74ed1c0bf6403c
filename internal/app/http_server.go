package app

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/engine"
	"github.com/frudas24/inputtap/internal/monitor"
	"github.com/frudas24/inputtap/internal/web"
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/screen", a.handleScreen)
	mux.Handle("/ws/control", a.Control())
	mux.Handle("/ws/inputs", a.Stream())
	if sig := a.Signaling(); sig != nil {
		mux.Handle("/ws/signal", sig)
	}
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", a.staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type stateResponse struct {
	Authenticated bool              `json:"authenticated"`
	PasswordMode  bool              `json:"passwordMode"`
	WebRTC        bool              `json:"webrtc"`
	Engine        *engine.State     `json:"engine,omitempty"`
	Screens       []monitor.Monitor `json:"screens,omitempty"`
	Desktop       *desktopBounds    `json:"desktop,omitempty"`
}

// desktopBounds is the box injected pointer coordinates should fall in.
type desktopBounds struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		a.log.Warn("login rejected", zap.String("remote", r.RemoteAddr))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	writeJSON(w, map[string]bool{"ok": true})
}

// handleState reports the session and, once authenticated, the engine state.
// The unauthenticated form lets the page decide whether to show the login.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := a.session.Snapshot()
	resp := stateResponse{
		Authenticated: snap.Authenticated,
		PasswordMode:  snap.PasswordMode,
		WebRTC:        a.signaling != nil,
	}
	if snap.Authenticated {
		st := a.engine.State()
		resp.Engine = &st
		a.addScreens(&resp)
	}
	writeJSON(w, resp)
}

// addScreens attaches display geometry when the platform can enumerate it.
func (a *App) addScreens(resp *stateResponse) {
	if a.screens == nil {
		return
	}
	list, err := a.screens()
	if err != nil {
		a.log.Debug("screens unavailable", zap.Error(err))
		return
	}
	x, y, w, h := monitor.Desktop(list)
	resp.Screens = list
	resp.Desktop = &desktopBounds{X: x, Y: y, W: w, H: h}
}

// handleScreen looks up one display, by ?index= or by the point ?x=&y=, so a
// client can tell which screen an injected coordinate will land on.
func (a *App) handleScreen(w http.ResponseWriter, r *http.Request) {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if a.screens == nil {
		http.Error(w, monitor.ErrUnsupported.Error(), http.StatusNotImplemented)
		return
	}
	list, err := a.screens()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	}

	q := r.URL.Query()
	var (
		m     monitor.Monitor
		found bool
	)
	if raw := q.Get("index"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "bad index", http.StatusBadRequest)
			return
		}
		m, found = monitor.GetMonitorByIndex(list, idx)
	} else {
		x, errX := strconv.ParseFloat(q.Get("x"), 64)
		y, errY := strconv.ParseFloat(q.Get("y"), 64)
		if errX != nil || errY != nil {
			http.Error(w, "index or x and y required", http.StatusBadRequest)
			return
		}
		m, found = monitor.At(list, x, y)
	}
	if !found {
		http.Error(w, "no such screen", http.StatusNotFound)
		return
	}
	writeJSON(w, m)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func (a *App) staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		a.log.Warn("static assets unavailable", zap.Error(err))
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
