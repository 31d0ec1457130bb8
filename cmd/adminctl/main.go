package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/geocoder89/adminpanel/internal/client"
	"github.com/geocoder89/adminpanel/internal/console"
	"github.com/geocoder89/adminpanel/internal/panel"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const defaultServer = "http://localhost:3001"

type options struct {
	server    string
	statePath string
	noColor   bool
}

// parseFlags reads flags from args. ADMINPANEL_URL and ADMINPANEL_STATE
// supply the defaults for -a and -state.
func parseFlags(args []string, getenv func(string) string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.server, "a", envOr(getenv, "ADMINPANEL_URL", defaultServer), "API base URL")
	fs.StringVar(&opts.statePath, "state", envOr(getenv, "ADMINPANEL_STATE", defaultStatePath()), "sqlite file holding the saved token and theme")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	storage, err := panel.OpenSQLiteStorage(ctx, opts.statePath)
	if err != nil {
		log.Fatalf("open state: %v", err)
	}
	defer storage.Close()

	color := !opts.noColor && term.IsTerminal(int(os.Stdout.Fd()))

	app := console.New(client.New(opts.server, nil), storage, os.Stdin, os.Stdout, color)
	app.Run(ctx)
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "adminctl.db"
	}
	return filepath.Join(dir, "adminctl", "state.db")
}
