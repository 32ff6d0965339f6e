package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/hearthside/holdem/internal/config"
	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/server"
	"github.com/hearthside/holdem/internal/service"
	"github.com/hearthside/holdem/internal/store"
)

var version = "dev"

var CLI struct {
	Config   string `short:"c" long:"config" default:"holdemd.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	DataDir  string `short:"d" long:"data-dir" help:"State directory (overrides config)"`
	Seed     int64  `long:"seed" help:"Deck RNG seed, 0 derives one from the clock"`
	Version  bool   `long:"version" help:"Print version and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	if CLI.Version {
		fmt.Println(version)
		ctx.Exit(0)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.DataDir != "" {
		cfg.Server.DataDir = CLI.DataDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	st, err := store.NewFile(cfg.Server.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := deck.NewRNG(seed)

	svc := service.New(st, logger, quartz.NewReal(), rng, cfg.Tables)
	wsServer := server.NewServer(cfg.Server.Address, logger, svc)

	logger.Info("Starting holdemd",
		"version", version,
		"addr", cfg.Server.Address,
		"data_dir", cfg.Server.DataDir)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(wsServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		return wsServer.Stop()
	})

	return g.Wait()
}
