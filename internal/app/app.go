// Package app wires the HTTP surface, the websocket servers and the engine
// together.
package app

import (
	"errors"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/config"
	"github.com/frudas24/inputtap/internal/control"
	"github.com/frudas24/inputtap/internal/engine"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/monitor"
	"github.com/frudas24/inputtap/internal/session"
	"github.com/frudas24/inputtap/internal/signaling"
	"github.com/frudas24/inputtap/internal/webrtc"
)

// App coordinates the HTTP API and websocket servers around one engine.
type App struct {
	cfg       config.Config
	session   *session.Session
	engine    *engine.Engine
	publisher *webrtc.Publisher
	signaling *signaling.Server
	control   *control.Server
	stream    *control.StreamServer
	screens   func() ([]monitor.Monitor, error)
	log       *zap.Logger
}

// New creates a new application with its dependencies wired. The WebRTC
// transport is only built when cfg.WebRTCEnabled is set.
func New(cfg config.Config, sess *session.Session, eng *engine.Engine, policy signaling.ViewerPolicy, log *zap.Logger) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	log = logging.OrNop(log)

	app := &App{
		cfg:     cfg,
		session: sess,
		engine:  eng,
		screens: monitor.ListMonitors,
		log:     log,
	}
	app.control = control.NewServer(eng, sess.IsAuthenticated, log.Named("control"))
	app.stream = control.NewStreamServer(eng, sess.IsAuthenticated, cfg.StreamBuffer, log.Named("stream"))

	if cfg.WebRTCEnabled {
		publisher, err := webrtc.NewPublisher(eng, cfg.StreamBuffer, log.Named("webrtc"))
		if err != nil {
			return nil, err
		}
		app.publisher = publisher
		app.signaling = signaling.NewServer(publisher, policy, sess.IsAuthenticated, log.Named("signaling"))
	}

	return app, nil
}

// Stop closes the viewer peer, if any.
func (a *App) Stop() {
	if a.publisher != nil {
		a.publisher.ClosePeer()
	}
}

// Signaling returns the signaling websocket handler, or nil when WebRTC is off.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// Stream returns the event stream websocket handler.
func (a *App) Stream() *control.StreamServer {
	return a.stream
}
