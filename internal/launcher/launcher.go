// Package launcher implements the build-and-run pipeline for the Alexa
// Chromecast local component: prerequisite checks, environment sourcing,
// AWS credential extraction, and the docker reset/build/run sequence.
package launcher

import (
	"context"
	"log/slog"
)

// Launcher wires the pipeline stages together.
type Launcher struct {
	opts   *Options
	paths  Paths
	docker *Docker
	log    *slog.Logger
}

// New returns a Launcher for the given invocation options and filesystem
// locations.
func New(opts *Options, paths Paths, docker *Docker, log *slog.Logger) *Launcher {
	return &Launcher{opts: opts, paths: paths, docker: docker, log: log}
}

// Run executes the pipeline: prerequisites, override-config seeding,
// environment sourcing, credential extraction, then container
// reset/build/run. The sequence is linear and fail-fast; only the
// container reset is best-effort.
func (l *Launcher) Run(ctx context.Context) error {
	if err := CheckPrerequisites(l.paths); err != nil {
		return err
	}

	seeded, err := EnsureCustomConfig(l.paths)
	if err != nil {
		return err
	}
	if seeded {
		l.log.Info("created override config from template", "path", l.paths.CustomEnv)
	}

	if err := LoadEnvironment(l.paths); err != nil {
		return err
	}

	creds := ExtractCredentials(l.paths)
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		l.log.Warn("no AWS credentials found; forwarding empty values",
			"path", l.paths.AWSCredentials)
	}
	env := BuildEnvMap(creds, l.opts)

	l.docker.Reset(ctx, ContainerName)
	if err := l.docker.Build(ctx, ImageName); err != nil {
		return err
	}
	return l.docker.Run(ctx, ImageName, ContainerName, l.opts.Daemon, env)
}
