package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nvalente/studiocms/config"
	"github.com/nvalente/studiocms/internal/adminapi"
	"github.com/nvalente/studiocms/internal/app"
	"github.com/nvalente/studiocms/internal/siteapi"
	"github.com/nvalente/studiocms/internal/webserver"
)

var (
	cfile    = flag.String("c", "studiocms.yml", "config file path")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
	gitTag   = "unknown"
	buildRev = "unknown"
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("studiocms %s (%s)\n", gitTag, buildRev)
		return
	}

	cfg, err := config.LoadConfig(*cfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.StartBackgroundJobs(ctx)

	server := webserver.Init(application)
	adminapi.Init()
	siteapi.Init()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("webserver stopped", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zap.L().Info("shutting down")
	cancel()
	_ = server.Root().Shutdown(context.Background())
}
