package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fzft/simple-redis/config"
	"github.com/fzft/simple-redis/db"
	"github.com/fzft/simple-redis/log"
	"github.com/fzft/simple-redis/node"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config file")
		port       = flag.Int("port", 0, "listen port, overrides the config file")
		bind       = flag.String("bind", "", "listen address, overrides the config file")
	)
	flag.Parse()

	if err := run(*configPath, *port, *bind); err != nil {
		fmt.Fprintf(os.Stderr, "simple-redis: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int, bind string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if port != 0 {
		cfg.Port = port
	}
	if bind != "" {
		cfg.Bind = bind
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := log.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Logger.Info("starting server", versionFields()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := node.NewServer(cfg, db.New(cfg.Shards))
	if err := s.Run(ctx); err != nil {
		log.Logger.Error("server stopped", zap.Error(err))
		return err
	}
	log.Logger.Info("server stopped")
	return nil
}
