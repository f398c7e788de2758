package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikmy/txnguard/internal/api"
	"github.com/nikmy/txnguard/internal/registry"
	"github.com/nikmy/txnguard/internal/session"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := loadConfig()
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	defer cancel()

	table, err := registry.Open(registry.NewRegions(), cfg.Control)
	if err != nil {
		log.Panic(errors.WrapFail(err, "open control table"))
	}

	dial, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Panic(errors.WrapFailf(err, "open %s backend", cfg.Backend.Kind))
	}

	manager := session.NewManager(log, table, dial, cfg.Session, cfg.Retry)
	server := api.NewServer(cfg.API, log, manager, table)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := server.Serve(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infof("graceful shutdown...")

		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()

		return errors.Collapse([]error{
			server.Shutdown(shutdownCtx),
			errors.WrapFail(closeBackend(shutdownCtx), "close backend"),
		})
	})

	log.Infof("serving %s sessions on %s", cfg.Backend.Kind, cfg.API.HTTP.Addr)

	err = g.Wait()
	if err != nil {
		log.Error(err)
	}
	log.Infof("shutdown complete")
}
