package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/config"
	"pos-terminal/internal/httpserver"
	"pos-terminal/internal/kitchen"
	"pos-terminal/internal/repository/snapshot"
	"pos-terminal/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[terminal] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	store, err := snapshot.Open(cfg.SnapshotDBPath, logger)
	if err != nil {
		logger.Fatalf("open snapshot store: %v", err)
	}

	api := backend.New(cfg.BackendURL)

	var printer session.TicketPrinter = &kitchen.LogPrinter{Logger: logger}
	if cfg.AMQPURL != "" {
		pub, err := kitchen.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Fatalf("connect to kitchen queue: %v", err)
		}
		defer pub.Close()
		printer = pub
	}

	sess := session.New(store, api, printer, logger, cfg.SurchargeName, cfg.SurchargePercent)
	sess.Restore(context.Background())

	hub := httpserver.NewHub(logger)
	sess.OnChange(func(v session.View) { hub.Broadcast(v) })

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Session:   sess,
		Backend:   api,
		Store:     store,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
