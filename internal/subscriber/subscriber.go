// Package subscriber implements the in-container side of the Alexa
// Chromecast skill: an HTTP endpoint subscribed to an SNS topic that
// receives commands from the skill's Lambda function and dispatches them
// to registered skill handlers.
package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS message envelope constants.
const (
	msgTypeSubscriptionConfirmation = "SubscriptionConfirmation"
	msgTypeNotification             = "Notification"
	headerTopicARN                  = "X-Amz-Sns-Topic-Arn"
	protocolHTTP                    = "http"
	commandPing                     = "ping"
)

// subscriptionARNPrefix distinguishes confirmed subscriptions from the
// "PendingConfirmation" placeholder SNS returns before confirmation.
const subscriptionARNPrefix = "arn:aws:sns:"

// envelope is the outer SNS delivery payload.
type envelope struct {
	Type    string `json:"Type"`
	Token   string `json:"Token"`
	Message string `json:"Message"`
}

// Subscriber receives skill commands from an SNS topic over HTTP. It
// implements http.Handler for the endpoint SNS posts to.
type Subscriber struct {
	sns      snsAPI
	topicARN string
	skills   map[string]Skill
	log      *slog.Logger

	// endpoint is the public URL registered with SNS, set by Subscribe.
	endpoint string

	now  func() time.Time
	ping pingState

	confirmOnce sync.Once
	confirmed   chan struct{}
}

// New returns a Subscriber for the topic with the given skill handlers,
// keyed by handler name.
func New(client snsAPI, topicARN string, skills map[string]Skill, log *slog.Logger) *Subscriber {
	return &Subscriber{
		sns:       client,
		topicARN:  topicARN,
		skills:    skills,
		log:       log,
		now:       time.Now,
		confirmed: make(chan struct{}),
	}
}

// Subscribe registers endpoint with the topic. SNS follows up with a
// confirmation request delivered to the endpoint itself.
func (s *Subscriber) Subscribe(ctx context.Context, endpoint string) error {
	s.endpoint = endpoint
	s.log.Info("subscribing for skill commands", "topic", s.topicARN, "endpoint", endpoint)
	_, err := s.sns.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(s.topicARN),
		Protocol: aws.String(protocolHTTP),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topicARN, err)
	}
	return nil
}

// Unsubscribe removes this endpoint's confirmed subscription from the
// topic, if one exists.
func (s *Subscriber) Unsubscribe(ctx context.Context) error {
	out, err := s.sns.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(s.topicARN),
	})
	if err != nil {
		return fmt.Errorf("list subscriptions for %s: %w", s.topicARN, err)
	}
	for _, sub := range out.Subscriptions {
		if aws.ToString(sub.Endpoint) != s.endpoint {
			continue
		}
		arn := aws.ToString(sub.SubscriptionArn)
		if !strings.HasPrefix(arn, subscriptionARNPrefix) {
			continue
		}
		if _, err := s.sns.Unsubscribe(ctx, &sns.UnsubscribeInput{
			SubscriptionArn: sub.SubscriptionArn,
		}); err != nil {
			return fmt.Errorf("unsubscribe %s: %w", arn, err)
		}
		s.log.Info("unsubscribed", "subscription", arn)
		return nil
	}
	return nil
}

// Confirmed returns a channel closed once the SNS subscription has been
// confirmed. The ping loop waits on it before publishing.
func (s *Subscriber) Confirmed() <-chan struct{} {
	return s.confirmed
}

// ServeHTTP handles deliveries from SNS: subscription confirmations and
// command notifications.
func (s *Subscriber) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		s.log.Error("malformed SNS payload", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch env.Type {
	case msgTypeSubscriptionConfirmation:
		s.log.Info("received subscription confirmation")
		if err := s.confirm(r.Context(), r.Header.Get(headerTopicARN), env.Token); err != nil {
			s.log.Error("confirm subscription", "error", err,
				"remediation", "check the topic ARN and permissions in AWS")
			http.Error(w, "confirmation failed", http.StatusInternalServerError)
			return
		}
	case msgTypeNotification:
		if env.Message != "" {
			s.dispatch(env.Message)
		}
	default:
		s.log.Warn("ignoring SNS message", "type", env.Type)
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
}

// confirm completes the subscription handshake using the token from the
// confirmation request. The header topic ARN wins when present; SNS sends
// it on every delivery.
func (s *Subscriber) confirm(ctx context.Context, topicARN, token string) error {
	if topicARN == "" {
		topicARN = s.topicARN
	}
	_, err := s.sns.ConfirmSubscription(ctx, &sns.ConfirmSubscriptionInput{
		TopicArn:                  aws.String(topicARN),
		Token:                     aws.String(token),
		AuthenticateOnUnsubscribe: aws.String("false"),
	})
	if err != nil {
		return err
	}
	s.log.Info("subscribed")
	s.confirmOnce.Do(func() { close(s.confirmed) })
	return nil
}

// dispatch decodes the inner notification and routes it: pings feed the
// watchdog, everything else goes to the skill registered for the handler
// name. Dispatch failures are logged, never fatal.
func (s *Subscriber) dispatch(raw string) {
	var n Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		s.log.Error("malformed notification", "error", err)
		return
	}

	if n.Command == commandPing {
		s.log.Info("received ping")
		s.ping.markReceived(s.now())
		return
	}

	s.log.Info("received command", "handler", n.HandlerName, "room", n.Room, "command", n.Command)
	skill, ok := s.skills[n.HandlerName]
	if !ok {
		s.log.Error("no skill registered for handler", "handler", n.HandlerName)
		return
	}
	if err := skill.HandleCommand(n.Room, n.Command, n.Data); err != nil {
		s.log.Error("skill command failed",
			"handler", n.HandlerName, "command", n.Command, "error", err)
	}
}
