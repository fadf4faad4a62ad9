package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"ozzus/hc-runner/healthchecks"
	"ozzus/hc-runner/internal/config"
	"ozzus/hc-runner/internal/lib/logger/slogpretty"
	"ozzus/hc-runner/runner"

	"github.com/joho/godotenv"
)

func main() {

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log := setupLogger(cfg.Env)

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hc-runner [--] <command> [args...]")
		os.Exit(2)
	}

	client, err := healthchecks.New(
		cfg.Healthchecks.BaseURL,
		cfg.Healthchecks.CheckID,
		healthchecks.WithTimeout(cfg.GetPingTimeout()),
	)
	if err != nil {
		log.Error("failed to initialize healthchecks client", "error", err)
		os.Exit(1)
	}

	r := runner.New(client, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting run",
		"env", cfg.Env,
		"command", strings.Join(args, " "),
	)

	exitCode := 0
	work := func(ctx context.Context) (runner.Status, error) {
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stdin = os.Stdin

		out, runErr := cmd.CombinedOutput()
		os.Stdout.Write(out)

		msg := tail(string(out), maxPingBody)

		if runErr == nil {
			return runner.Status{Success: true, Message: msg}, nil
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
			if msg == "" {
				msg = runErr.Error()
			}
			return runner.Status{Success: false, Message: msg}, nil
		}

		// The command never started (not found, permissions, ...).
		return runner.Status{}, runErr
	}

	if err := r.Run(ctx, work); err != nil {
		log.Error("command failed to start", "error", err.Error())
		os.Exit(1)
	}

	os.Exit(exitCode)
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	// The provider truncates large ping bodies; the tail of the output
	// is the useful part.
	maxPingBody = 10 * 1024
)

func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
