// Package main is the emosuggest CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/emosuggest/internal/cli"
	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/server"
	"github.com/hyperjump/emosuggest/internal/session"
	"github.com/hyperjump/emosuggest/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/emosuggest/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory takes precedence if it exists, so running from a project dir uses its config.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "chat":
		runChat()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("emosuggest version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// mustLogger loads the config and creates the logger, exiting on failure.
func mustLogger(configPath string, debug bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-category ingest, requests)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := mustLogger(*configPath, *debug)
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("backend", cfg.Source.Backend),
		zap.Int("categories", len(cfg.Recommend.Categories)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	clearOnAccept := cfg.Session.ClearOnAcceptOrDefault()
	sessions := session.NewManager(func(id string) *session.Session {
		return session.New(components.Engine, components.Sink,
			session.WithID(id),
			session.WithClearOnAccept(clearOnAccept),
			session.WithLogger(logger),
		)
	}, session.WithIdleTimeout(cfg.Session.IdleTimeout))
	go sessions.Run(ctx, time.Minute)

	srv := server.NewServer(
		components.Engine,
		sessions,
		cfg,
		logger,
		server.WithSource(components.Source, components.Report),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: emosuggest search [flags] <text>\n\nFlags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  emosuggest search 今日は猫と遊んで幸せ
  emosuggest search --output json "楽しい一日"
  emosuggest search --server "" 眠い       # no server running: ingest locally
`)
}

// buildText joins all positional args with spaces so unquoted multi-word text works.
func buildText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags that appear after the text to the front so flag.Parse sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for local mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = build the table locally)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	text := buildText(fs.Args())
	if text == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var rec *models.Recommendation
	if *serverURL != "" {
		rec, err = recommendViaHTTP(*serverURL, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, logger := mustLogger(*configPath, false)
		defer logger.Sync()
		components, err := initializeComponents(context.Background(), cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		rec = components.Engine.Recommend(text)
	}

	if err := cli.WriteRecommendation(os.Stdout, rec, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func recommendViaHTTP(serverURL, text string) (*models.Recommendation, error) {
	body, err := json.Marshal(models.RecommendRequest{Text: text})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/recommend", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var rec models.Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &rec, nil
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := mustLogger(*configPath, *debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "Loading emoji table...")
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	sess := session.New(components.Engine, components.Sink,
		session.WithClearOnAccept(cfg.Session.ClearOnAcceptOrDefault()),
		session.WithLogger(logger),
	)
	if err := chatLoop(ctx, sess, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Chat failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for local mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = build the table locally)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var st models.Status
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		st = *res
	} else {
		cfg, _, logger := mustLogger(*configPath, false)
		defer logger.Sync()
		components, err := initializeComponents(context.Background(), cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		st = components.Status(cfg)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		cli.WriteStatus(os.Stdout, st)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*models.Status, error) {
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var st models.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &st, nil
}

func printUsage() {
	fmt.Println(`emosuggest - Emoji suggestions learned from a keyword spreadsheet

Usage:
  emosuggest server [flags]          Start the HTTP server
  emosuggest search [flags] <text>   Recommend emoji for a text
  emosuggest chat [flags]            Interactive search/accept session on the terminal
  emosuggest status [flags]          Show table/source status
  emosuggest version                 Show version
  emosuggest help                    Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/emosuggest/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to build the table locally.
  --output string    Output format: text, compact, or json (default: text)

Chat Flags:
  --config string    Config file path
  --debug            Enable debug logging

Status Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to build the table locally.
  --output string    Output format: text or json (default: text)

Examples:
  emosuggest server
  emosuggest search 今日は猫と遊んで幸せ
  emosuggest search --output json 楽しい
  emosuggest chat
  emosuggest status --output json`)
}
