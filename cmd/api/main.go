package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ItaloOlivier/ayonne-sub004/internal/config"
	"github.com/ItaloOlivier/ayonne-sub004/internal/container"
)

func main() {
	configPath := flag.String("config", os.Getenv("AYN_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	c := container.NewContainer(cfg)

	server := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     c.Handler(),
		ReadTimeout: time.Duration(cfg.Server.RequestTimeout),
		// No WriteTimeout: the analyze endpoint holds a long-lived SSE
		// stream bounded by the classifier timeout instead.
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"address": cfg.Server.Address(),
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
