// Package main implements the alexa-chromecast launcher. It builds the
// skill's container image from the local build context and runs it with
// configuration sourced from the local env files and AWS CLI credentials.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/homecast/alexa-chromecast/internal/launcher"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, helped, err := launcher.ParseOptions(args, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alexa-chromecast: %v\n", err)
		return 1
	}
	if helped {
		return 0
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	paths, err := launcher.DefaultPaths()
	if err != nil {
		log.Error("resolve paths", "error", err)
		return 1
	}

	l := launcher.New(opts, paths, launcher.NewDocker(log), log)
	if err := l.Run(context.Background()); err != nil {
		log.Error("launch failed", "error", err)
		return launcher.ExitCode(err)
	}
	return 0
}
