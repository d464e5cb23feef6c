package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"medintake/app/client/backend"
	"medintake/app/client/speechkit"
	"medintake/app/config"
	"medintake/app/server"
	"medintake/app/service/engine"
	"medintake/app/service/extractor"
	"medintake/app/service/intake"
	"medintake/app/service/journal"
	"medintake/app/service/queue"
	"medintake/app/service/transcribe"
	"medintake/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, speechkit.NewClient)
	do.Provide(di, backend.NewClient)
	do.Provide(di, extractor.New)
	do.Provide(di, journal.New)
	do.Provide(di, queue.New)
	do.Provide(di, intake.New)
	do.Provide(di, transcribe.New)
	do.Provide(di, engine.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*engine.Service](di).Run(appCtx)

	go func() {
		if err := do.MustInvoke[*server.Server](di).Run(appCtx); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-appCtx.Done()
}
