package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrezinsky/pollbox/internal/app"
	"github.com/abrezinsky/pollbox/internal/config"
	"github.com/abrezinsky/pollbox/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

func showLogo() {
	logo := []string{
		"  ____       _ _ _               ",
		" |  _ \\ ___ | | | |__   _____  __",
		" | |_) / _ \\| | | '_ \\ / _ \\ \\/ /",
		" |  __/ (_) | | | |_) | (_) >  < ",
		" |_|   \\___/|_|_|_.__/ \\___/_/\\_\\",
	}
	width := 40
	border := strings.Repeat("═", width)

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-*s%s║%s\n", cyan, yellow, width, "   "+line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %so%s      - Open server in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Pollbox - quick polls with duplicate vote checking

Usage:
  pollbox [options]

Options:
  -port int             HTTP server port (default 8081, env PORT)
  -db string            SQLite database path (default "pollbox.db", env POLLBOX_DB)
  -loglevel str         Log level: debug, info, warn, error (env LOG_LEVEL)
  -logformat str        Log format: text or json (env LOG_FORMAT)
  -redis str            Redis address or URL for the chart cache (env REDIS_URL)
  -session-secret str   Key for signing voter sessions (env SESSION_SECRET)
  -base-url str         Public URL for voting links and QR codes (env BASE_URL)
  -timezone str         Zone for deadlines without an offset (default "UTC", env APP_TIMEZONE)
  -nokeyboard           Disable keyboard shortcuts
  -version              Show version and exit

Settings may also be placed in a .env file in the working directory.

Examples:
  pollbox                                   # Run on port 8081 with pollbox.db
  pollbox -port 8080 -db /data/polls.db     # Custom port and database
  pollbox -redis redis://cache:6379/0       # Share rendered charts via Redis
  pollbox -base-url https://polls.example.com -nokeyboard

`)
}

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if a == "-h" || a == "-help" || a == "--help" {
			usage()
			os.Exit(0)
		}
	}

	cfg, err := config.Load(args)
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if cfg.ShowVersion {
		fmt.Printf("pollbox %s\n", version)
		os.Exit(0)
	}

	showLogo()

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})

	a, err := app.New(appLog, cfg)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(cfg.Addr())
	}()

	openURL := a.BaseURL() + "/api/config"

	quit := make(chan struct{})
	if !cfg.NoKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(openURL, appLog, quit)
	} else {
		fmt.Printf("%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			appLog.Error("Server stopped", "error", err)
			a.Close()
			os.Exit(1)
		}
	case sig := <-signals:
		appLog.Info("Shutting down", "signal", sig.String())
	case <-quit:
	}
}
