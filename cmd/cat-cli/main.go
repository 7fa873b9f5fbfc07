package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/client"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/config"
)

const usage = `Usage: cat-cli <command> [options] [args]

TechStore catalog command line client.

Commands:
  list [-q term] [-section name] [-used used|new]   List products, optionally filtered
  get <id>                                          Show one product
  create -name .. -section .. -price .. -description .. -image .. -brand .. [-used]
  update <id> [-name ..] [-section ..] [...]        Replace a product, unset flags keep current values
  delete [-y] <id>                                  Delete a product after confirmation
  brands                                            List brands
  sections                                          List sections present in the catalog

Environment:
  CATALOG_API_URL      API base URL (default http://localhost:8000)
  CATALOG_API_TIMEOUT  Request timeout (default 10s)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return errors.New("a command is required")
		}
		return flag.ErrHelp
	}

	type Config struct {
		Client config.Client
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := slog.New(tint.NewHandler(stderr, &tint.Options{Level: slog.LevelWarn}))

	cmd := &command{
		api:     client.New(cfg.Client),
		logger:  logger,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		program: "cat-cli " + args[0],
	}

	switch args[0] {
	case "list":
		return cmd.list(ctx, args[1:])
	case "get":
		return cmd.get(ctx, args[1:])
	case "create":
		return cmd.create(ctx, args[1:])
	case "update":
		return cmd.update(ctx, args[1:])
	case "delete":
		return cmd.delete(ctx, args[1:])
	case "brands":
		return cmd.brands(ctx, args[1:])
	case "sections":
		return cmd.sections(ctx, args[1:])
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
