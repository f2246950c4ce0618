package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homecast/alexa-chromecast/internal/subscriber"
)

const (
	shutdownTimeout        = 10 * time.Second
	defaultReadHeaderTmout = 10 * time.Second
	externalIPTimeout      = 30 * time.Second
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()
	snsClient, err := subscriber.NewSNSClient(ctx, log)
	if err != nil {
		return err
	}

	// TODO: register the chromecast skill handler here once the cast
	// control port is implemented.
	skills := map[string]subscriber.Skill{}
	sub := subscriber.New(snsClient, cfg.TopicARN, skills, log)

	addr := fmt.Sprintf(":%d", cfg.ExternalPort)
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	// No manual port forward configured: map the ephemeral port via the
	// LAN's internet gateway.
	var mapper subscriber.PortMapper
	if cfg.ExternalPort == 0 {
		mapper, err = subscriber.DiscoverGateway()
		if err != nil {
			return fmt.Errorf(
				"UPnP setup failed (map the port manually and set %s): %w",
				envExternalPort, err)
		}
		if err := mapper.Forward(uint16(port)); err != nil {
			return fmt.Errorf(
				"UPnP port mapping failed (map the port manually and set %s): %w",
				envExternalPort, err)
		}
	}

	ip := cfg.ExternalIP
	if ip == "" {
		lookupCtx, cancel := context.WithTimeout(ctx, externalIPTimeout)
		ip, err = subscriber.LookupExternalIP(lookupCtx, http.DefaultClient, subscriber.ExternalIPURL)
		cancel()
		if err != nil {
			return fmt.Errorf("discover external IP (set %s to skip): %w", envExternalIP, err)
		}
	}

	endpoint := fmt.Sprintf("http://%s:%d", ip, port)
	log.Info("listening", "endpoint", endpoint)
	if err := sub.Subscribe(ctx, endpoint); err != nil {
		return err
	}

	return serveWithShutdown(log, ln, sub, mapper, uint16(port))
}

// serveWithShutdown runs the HTTP endpoint and the ping loop until a
// termination signal, a serve failure, or the ping watchdog stops it, then
// unsubscribes, unmaps, and shuts the server down.
func serveWithShutdown(
	log *slog.Logger,
	ln net.Listener,
	sub *subscriber.Subscriber,
	mapper subscriber.PortMapper,
	port uint16,
) error {
	srv := &http.Server{
		Handler:           sub,
		ReadHeaderTimeout: defaultReadHeaderTmout,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	pingCtx, cancelPing := context.WithCancel(context.Background())
	defer cancelPing()
	pingErrCh := make(chan error, 1)
	go func() {
		pingErrCh <- sub.RunPing(pingCtx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	var cause error
	select {
	case sig := <-sigCh:
		log.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serveErrCh:
		cause = fmt.Errorf("serve: %w", err)
	case err := <-pingErrCh:
		cause = err
	}
	cancelPing()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sub.Unsubscribe(ctx); err != nil {
		log.Error("unsubscribe", "error", err)
	}
	if mapper != nil {
		if err := mapper.Unforward(port); err != nil {
			log.Error("remove port mapping", "port", port, "error", err)
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", "error", err)
	}

	log.Info("shutdown complete")
	return cause
}
