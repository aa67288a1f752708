package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/app"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/config"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/logging"
)

func main() {
	log := logging.Log
	logging.UseJSON()

	// Loading config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Creating services out of config parameters
	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	if !cfg.AuthEnabled() {
		log.Warn("jwt_secret is empty, API routes are not protected")
	}

	// Creation of HTTP server
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           a.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0, // SSE and websocket responses stay open
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Running http server on a secondary thread
	go func() {
		log.Infof("server listening on %s", srv.Addr)
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			log.Info("TLS enabled")
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
