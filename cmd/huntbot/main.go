package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"huntbot/internal/api"
	"huntbot/internal/browse"
	"huntbot/internal/commands"
	"huntbot/internal/config"
	"huntbot/internal/dispatch"
	"huntbot/internal/events"
	"huntbot/internal/gateway/discord"
	"huntbot/internal/interact"
	"huntbot/internal/log"
	"huntbot/internal/settings"
	"huntbot/internal/tabstore/sqlitestore"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "check":
		os.Exit(runCheck(args))
	case "version":
		fmt.Printf("huntbot version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`huntbot - Discord puzzlehunt tracker

Usage:
  huntbot <command> [flags]

Commands:
  start     Run the bot in the foreground
  check     Validate the configuration file
  version   Show version information
  help      Show this help message

Use 'huntbot <command> -h' for command-specific flags.
`)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("main")

	fingerprint, err := config.Fingerprint(*configPath)
	if err != nil {
		logger.Error("failed to fingerprint config", "path", *configPath, "error", err)
		return 1
	}
	logger.Info("huntbot starting", "version", version, "config", *configPath, "config_hash", fingerprint)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := sqlitestore.Open(ctx, cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.Store.Path, "error", err)
		return 1
	}
	defer store.Close()
	logger.Info("store opened", "path", cfg.Store.Path)

	sessions := browse.NewManager(browse.Options{
		Headless: cfg.Browser.Headless,
		Lifespan: cfg.Browser.Lifespan,
	})
	defer sessions.CloseAll()

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Error("failed to create discord session", "error", err)
		return 1
	}

	registry := interact.NewRegistry(cfg.Service.HandlerTTL)
	hub := events.NewHub(256)
	dispatcher := dispatch.New(registry, cfg.Store.Email)
	adapter := discord.New(session, cfg.Discord.AppID, cfg.Discord.GuildID, dispatcher, hub)

	svc := settings.NewService(store, adapter.Pins(), sessions, cfg.Store.SettingsTemplate, cfg.Store.Email)
	dispatcher.Register(commands.New(svc, registry, hub, cfg.Store.TrackerTemplate).All()...)

	if err := adapter.Open(); err != nil {
		logger.Error("failed to connect to discord", "error", err)
		return 1
	}
	defer adapter.Close()

	if err := adapter.RegisterCommands(dispatcher.Commands()); err != nil {
		logger.Error("failed to register commands", "error", err)
		return 1
	}

	go registry.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)

	if cfg.API.Enabled {
		apiServer := api.New(api.Config{
			Listen: cfg.API.Listen,
			Token:  cfg.API.Token,
		}, svc, registry, hub)
		go func() {
			if err := apiServer.Start(ctx); err != nil && err != context.Canceled {
				errCh <- fmt.Errorf("api: %w", err)
			}
		}()
		logger.Info("API server enabled", "listen", cfg.API.Listen)
	}

	logger.Info("huntbot running (press Ctrl+C to stop)")

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	case err := <-errCh:
		logger.Error("component failed", "error", err)
		cancel()
		return 1
	}

	logger.Info("huntbot stopped")
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config invalid: %v\n", err)
		return 1
	}

	fingerprint, err := config.Fingerprint(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fingerprint config: %v\n", err)
		return 1
	}

	fmt.Printf("Config OK: service=%s hash=%s\n", cfg.Service.Name, fingerprint)
	return 0
}
