package subscriber

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// snsAPI is the subset of the SNS client the subscriber uses. Tests provide
// a fake; production uses *sns.Client.
type snsAPI interface {
	Subscribe(ctx context.Context, in *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	ConfirmSubscription(ctx context.Context, in *sns.ConfirmSubscriptionInput, optFns ...func(*sns.Options)) (*sns.ConfirmSubscriptionOutput, error)
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	ListSubscriptionsByTopic(ctx context.Context, in *sns.ListSubscriptionsByTopicInput, optFns ...func(*sns.Options)) (*sns.ListSubscriptionsByTopicOutput, error)
	Unsubscribe(ctx context.Context, in *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
}

// NewSNSClient builds an SNS client from the default AWS config chain and
// logs the caller identity as a credential preflight. An identity lookup
// failure is logged, not fatal: the subscribe call will surface a real
// credential problem with a clearer error.
func NewSNSClient(ctx context.Context, log *slog.Logger) (*sns.Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	identity, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		log.Warn("could not verify AWS credentials", "error", err)
	} else {
		log.Info("using AWS identity",
			"account", aws.ToString(identity.Account),
			"arn", aws.ToString(identity.Arn))
	}

	return sns.NewFromConfig(cfg), nil
}
