package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the subset of the SNS client used by snsPublisher.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher broadcasts each event to a topic. The announcement line
// doubles as the subject so email/SMS subscribers see it verbatim.
type snsPublisher struct {
	id       string
	topicARN string
	client   snsClient
	log      Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.AWSSettings)
	if err != nil {
		return nil, err
	}
	endpoint := baseEndpoint(cfg.SNS.AWSSettings)

	return &snsPublisher{
		id:       cfg.ID,
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg, func(o *sns.Options) { o.BaseEndpoint = endpoint }),
		log:      ensureLogger(log),
	}, nil
}

func (s *snsPublisher) ID() string   { return s.id }
func (s *snsPublisher) Type() string { return TypeSNS }

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := eventBody(evt)
	if err != nil {
		return err
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  body,
		Subject:  aws.String(snsSubject(evt.Headline)),
		MessageAttributes: messageAttributes(evt, func(dt, v *string) types.MessageAttributeValue {
			return types.MessageAttributeValue{DataType: dt, StringValue: v}
		}),
	})

	var messageID *string
	if out != nil {
		messageID = out.MessageId
	}
	reportDelivery(s.log, TypeSNS, s.id, evt, messageID, err)
	if err != nil {
		return fmt.Errorf("publish to sns: %w", err)
	}
	return nil
}

// snsSubject trims to the 100-character SNS subject limit.
func snsSubject(s string) string {
	const maxSubject = 100
	r := []rune(s)
	if len(r) <= maxSubject {
		return s
	}
	return string(r[:maxSubject-3]) + "..."
}
