// Package main is the entry point for the issue-bot CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/issue-bot/internal/app"
	"github.com/runoshun/issue-bot/internal/cli"
	"github.com/runoshun/issue-bot/internal/infra/actions"
	"github.com/runoshun/issue-bot/internal/infra/logging"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		report(err, os.Stdout, os.Stderr)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := cli.NewRootCommand(app.New, version)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// report logs a failed run and annotates it for the Actions runner.
func report(err error, stdout, stderr io.Writer) {
	logging.New(stderr, logging.ParseLevel("error")).Error("run failed", "err", err)
	actions.NewWriterFromEnv(stdout).Fail(err)
}
