package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/veilbox/veilbox/internal/artifactStore"
	"github.com/veilbox/veilbox/internal/config"
	"github.com/veilbox/veilbox/pkg/apiServer"
	"github.com/veilbox/veilbox/pkg/logging"
	"github.com/veilbox/veilbox/pkg/workerPool"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(logging.ParseLevel(conf.LogLevel))

	store, err := artifactStore.New(artifactStore.StoreConfig{
		Path:               conf.ArtifactPath,
		MinimumFreeSpaceGB: conf.MinimumFreeSpaceGB,
	})
	if err != nil {
		log.Error("failed to open artifact store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	server := apiServer.New(store,
		apiServer.WithLogger(log),
		apiServer.WithDefaultChaosKey(conf.DefaultChaosKey),
		apiServer.WithPool(workerPool.New(workerPool.Config{})),
	)

	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting veilbox server", "listen", conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
