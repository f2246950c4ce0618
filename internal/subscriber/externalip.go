package subscriber

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// ExternalIPURL is the default service used to discover the public address
// when EXTERNAL_IP is not set.
const ExternalIPURL = "https://api.ipify.org"

// maxIPResponseBytes bounds the lookup response read.
const maxIPResponseBytes = 64

// LookupExternalIP fetches the host's public IP address from url.
func LookupExternalIP(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build external IP request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("look up external IP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("external IP lookup returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIPResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read external IP response: %w", err)
	}

	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("external IP lookup returned %q, not an IP address", ip)
	}
	return ip, nil
}
