package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves region and credentials for an AWS-backed sink.
func loadAWSConfig(ctx context.Context, s AWSSettings) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(s.Region)}
	if s.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, s.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// baseEndpoint returns the endpoint override for a service client, or nil.
func baseEndpoint(s AWSSettings) *string {
	if s.Endpoint == "" {
		return nil
	}
	return aws.String(s.Endpoint)
}

// eventBody is the JSON message body shared by the AWS sinks.
func eventBody(evt Event) (*string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return aws.String(string(payload)), nil
}

// messageAttributes converts the non-empty event attributes into the
// service-specific attribute type.
func messageAttributes[A any](evt Event, build func(dataType, value *string) A) map[string]A {
	attrs := make(map[string]A)
	for k, v := range evt.attributes() {
		if v == "" {
			continue
		}
		attrs[k] = build(aws.String("String"), aws.String(v))
	}
	return attrs
}

// reportDelivery logs the outcome of one AWS send under a per-service key.
func reportDelivery(log Logger, service, publisherID string, evt Event, messageID *string, err error) {
	if err != nil {
		log.ErrorObj(service+" publisher send failed", "publisher_"+service+"_error", map[string]any{
			"publisher_id": publisherID,
			"event_id":     evt.ID,
			"error":        err.Error(),
		})
		return
	}
	log.DebugObj(service+" publisher delivered event", "publisher_"+service+"_delivery", map[string]any{
		"publisher_id": publisherID,
		"event_id":     evt.ID,
		"message_id":   aws.ToString(messageID),
	})
}
