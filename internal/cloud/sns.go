package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
)

const publishTimeout = 10 * time.Second

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient sends over-consumption alerts to an SNS topic
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

// NewSNSClient creates a new SNS client instance
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

// SendAlert publishes one message to the topic and waits for SNS to accept it.
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	result, err := c.svc.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Info().Str("message_id", aws.ToString(result.MessageId)).Msg("alert sent")
	return nil
}

// Publish sends the event as an alert in the background; the caller is not
// held up by SNS latency.
func (c *SNSClient) Publish(ctx context.Context, ev events.OverConsumptionEvent) error {
	subject, message := alertText(ev)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := c.SendAlert(ctx, subject, message); err != nil {
			log.Error().Err(err).Str("event_id", ev.EventID).Msg("over-consumption alert not sent")
		}
	}()
	return nil
}

func alertText(ev events.OverConsumptionEvent) (string, string) {
	subject := fmt.Sprintf("Irrigation Alert: Over-consumption on pump %s", ev.PumpReference)
	message := fmt.Sprintf(
		"Over-Consumption Alert\n\n"+
			"Pump: %s (id %d)\n"+
			"Energy used: %.2f kWh\n"+
			"Threshold: %.2f kWh\n"+
			"Time: %s\n\n"+
			"%s",
		ev.PumpReference,
		ev.PumpID,
		ev.EnergyUsedKWh,
		ev.ThresholdKWh,
		ev.DetectedAt.Format(time.RFC3339),
		ev.Message,
	)
	return subject, message
}
