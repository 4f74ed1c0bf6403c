package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/app"
	"github.com/frudas24/inputtap/internal/config"
	"github.com/frudas24/inputtap/internal/engine"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/platform"
	"github.com/frudas24/inputtap/internal/session"
	"github.com/frudas24/inputtap/internal/signaling"
)

const shutdownTimeout = 5 * time.Second

// run wires the application, services the UI loop on the calling thread and
// blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	logStartup(log, cfg)

	plat, err := platform.New()
	if err != nil {
		return err
	}
	eng, err := engine.New(engine.Options{
		Platform:  plat,
		QueueSize: cfg.QueueSize,
		Override:  cfg.PermissionOverride,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	if !eng.IsPermissionGranted(nil) {
		log.Warn("input monitoring permission missing; the tap stays idle until it is granted",
			zap.String("platform", plat.Name))
	}

	password := cfg.UIPassword
	if !cfg.PasswordMode {
		password = ""
	}
	appInstance, err := app.New(cfg, session.New(password), eng, signaling.ViewerReplace, log)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, server, log, func(shutdownCtx context.Context) error {
			appInstance.Stop()
			return eng.Close(shutdownCtx)
		})
	}()

	eng.Run()
	return <-errCh
}

// serve runs server until ctx ends or it fails, then shuts it down and calls
// release, which must stop the UI loop.
func serve(ctx context.Context, server *http.Server, log *zap.Logger, release func(context.Context) error) error {
	listenErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			listenErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := release(shutdownCtx); err != nil {
		log.Warn("engine shutdown", zap.Error(err))
	}
	return runErr
}

// logStartup prints startup checks and connection info.
func logStartup(log *zap.Logger, cfg config.Config) {
	log.Info("inputtap starting",
		zap.String("os", runtime.GOOS+"/"+runtime.GOARCH),
		zap.Int("queueSize", cfg.QueueSize),
		zap.Bool("webrtc", cfg.WebRTCEnabled))
	logEnvStatus(log, cfg)
	logListenStatus(log, cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found and how the UI is gated.
func logEnvStatus(log *zap.Logger, cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	log.Info("env check", zap.String("path", envPath), zap.Bool("found", fileExists(envPath)))
	log.Info("config file", zap.String("path", cfg.ConfigPath), zap.Bool("found", fileExists(cfg.ConfigPath)))
	if cfg.PasswordMode {
		log.Info("password mode enabled")
	} else {
		log.Warn("password mode disabled (dev mode)")
	}
	if cfg.PermissionOverride != "" {
		log.Warn("permission probe overridden", zap.String("override", string(cfg.PermissionOverride)))
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(log *zap.Logger, addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		log.Info("listen addr", zap.String("addr", addr))
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Info("listen addr", zap.String("addr", addr), zap.String("url", "http://"+net.JoinHostPort(host, port)))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
