package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Ping cadence. A ping travels out through the topic and back to our own
// endpoint; when none arrives within the staleness window the whole
// delivery path is considered broken.
const (
	pingInterval   = 10 * time.Minute
	pingStaleAfter = 2 * pingInterval
)

// pingState tracks ping liveness across the HTTP handler and the ping loop.
type pingState struct {
	mu           sync.Mutex
	lastReceived time.Time
}

func (p *pingState) markReceived(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastReceived = t
}

// stale reports whether the last received ping is older than window. It is
// false until the first ping arrives, so a slow initial delivery does not
// kill the process.
func (p *pingState) stale(now time.Time, window time.Duration) (bool, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastReceived.IsZero() {
		return false, 0
	}
	age := now.Sub(p.lastReceived)
	return age > window, age
}

// RunPing waits for the subscription to be confirmed, then publishes a ping
// through the topic every pingInterval. It returns an error when received
// pings go stale, so the process exits nonzero and the container's restart
// policy recovers it.
func (s *Subscriber) RunPing(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-s.confirmed:
	}

	if err := s.pingOnce(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.pingOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// pingOnce reports topic health, enforces the staleness window, and
// publishes the next ping. SNS call failures are logged and retried on the
// next tick; only a stale watchdog is fatal.
func (s *Subscriber) pingOnce(ctx context.Context) error {
	out, err := s.sns.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(s.topicARN),
	})
	switch {
	case err != nil:
		s.log.Error("list subscriptions", "error", err)
	case len(out.Subscriptions) == 0:
		s.log.Error("no clients are subscribed")
	default:
		s.log.Info("clients subscribed", "count", len(out.Subscriptions))
	}

	if stale, age := s.ping.stale(s.now(), pingStaleAfter); stale {
		return fmt.Errorf("no ping received for %s; exiting for restart", age.Round(time.Second))
	}

	s.log.Info("sending ping")
	body, err := json.Marshal(Notification{Command: commandPing})
	if err != nil {
		return fmt.Errorf("encode ping: %w", err)
	}
	if _, err := s.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
	}); err != nil {
		s.log.Error("publish ping", "error", err)
	}
	return nil
}
