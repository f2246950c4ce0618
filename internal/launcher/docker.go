package launcher

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
)

// Fixed names for the image and the single container instance this
// launcher manages.
const (
	ImageName     = "alexa-skill-chromecast"
	ContainerName = "alexa_chromecast"
)

// dockerBinary is the container runtime CLI invoked for every operation.
const dockerBinary = "docker"

// commandRunner executes an external command to completion.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands with the caller's standard streams attached, so
// build output and the foreground container share the operator's terminal.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Docker drives the container runtime CLI for the launcher.
type Docker struct {
	runner commandRunner
	log    *slog.Logger
}

// NewDocker returns a Docker backed by the real CLI.
func NewDocker(log *slog.Logger) *Docker {
	return &Docker{runner: execRunner{}, log: log}
}

// Reset stops and removes any previous container instance with the given
// name. Both steps are best-effort: the container may simply not exist.
func (d *Docker) Reset(ctx context.Context, name string) {
	if err := d.runner.Run(ctx, dockerBinary, "stop", name); err != nil {
		d.log.Debug("no running container to stop", "name", name, "error", err)
	}
	if err := d.runner.Run(ctx, dockerBinary, "rm", name); err != nil {
		d.log.Debug("no container to remove", "name", name, "error", err)
	}
}

// Build builds the image from the current directory's build context.
func (d *Docker) Build(ctx context.Context, image string) error {
	d.log.Info("building image", "image", image)
	if err := d.runner.Run(ctx, dockerBinary, "build", "-t", image, "."); err != nil {
		return &LaunchError{
			Stage:       StageBuild,
			Message:     "docker build failed",
			Remediation: "inspect the build output above for the failing step",
			Cause:       err,
		}
	}
	return nil
}

// Run launches the container and blocks until it exits (foreground mode) or
// until docker has started it (daemon mode). The returned error carries
// docker's exit status.
func (d *Docker) Run(ctx context.Context, image, name string, daemon bool, env map[string]string) error {
	d.log.Info("starting container", "name", name, "daemon", daemon)
	if err := d.runner.Run(ctx, dockerBinary, runArgs(image, name, daemon, env)...); err != nil {
		return &LaunchError{
			Stage:   StageRun,
			Message: "docker run failed",
			Cause:   err,
		}
	}
	return nil
}

// runArgs constructs the docker run argument list. Foreground mode attaches
// interactively and removes the container on exit; daemon mode detaches
// with an always-restart policy.
func runArgs(image, name string, daemon bool, env map[string]string) []string {
	args := []string{"run", "--network", "host", "--name", name}
	if daemon {
		args = append(args, "-d", "--restart", "always")
	} else {
		args = append(args, "-it", "--rm")
	}
	for _, key := range forwardedEnvVars {
		args = append(args, "-e", key+"="+env[key])
	}
	return append(args, image)
}
