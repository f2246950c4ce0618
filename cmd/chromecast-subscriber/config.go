// Package main implements the chromecast-subscriber entrypoint binary that
// runs inside the alexa-skill-chromecast container. It subscribes to the
// skill's SNS topic and dispatches received commands.
package main

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names.
const (
	envTopicARN     = "AWS_SNS_TOPIC_ARN"
	envExternalIP   = "EXTERNAL_IP"
	envExternalPort = "EXTERNAL_PORT"
)

// subscriberConfig holds all configuration parsed from environment
// variables.
type subscriberConfig struct {
	TopicARN string
	// ExternalIP is the public address SNS should deliver to. Empty means
	// discover it via the external IP lookup service.
	ExternalIP string
	// ExternalPort is the manually forwarded port. Zero means listen on an
	// ephemeral port and map it via UPnP.
	ExternalPort int
}

// loadConfig reads configuration from environment variables.
// AWS_SNS_TOPIC_ARN is required; the AWS SDK's own variables (region,
// credentials) are consumed by the default config chain.
func loadConfig() (*subscriberConfig, error) {
	cfg := &subscriberConfig{
		TopicARN:   os.Getenv(envTopicARN),
		ExternalIP: os.Getenv(envExternalIP),
	}
	if cfg.TopicARN == "" {
		return nil, fmt.Errorf("%s is required", envTopicARN)
	}

	if portStr := os.Getenv(envExternalPort); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", envExternalPort, portStr, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s %d: out of range", envExternalPort, port)
		}
		cfg.ExternalPort = port
	}

	return cfg, nil
}
