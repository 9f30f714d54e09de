package cloud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
)

type fakeSNS struct {
	inputs chan *sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs <- in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSendAlert(t *testing.T) {
	f := &fakeSNS{inputs: make(chan *sns.PublishInput, 1)}
	c := &SNSClient{svc: f, topicArn: "arn:aws:sns:us-east-1:123:irrigation"}

	require.NoError(t, c.SendAlert(context.Background(), "subject", "body"))
	in := <-f.inputs
	assert.Equal(t, "arn:aws:sns:us-east-1:123:irrigation", aws.ToString(in.TopicArn))
	assert.Equal(t, "subject", aws.ToString(in.Subject))

	f.err = errors.New("throttled")
	go func() { <-f.inputs }()
	assert.ErrorContains(t, c.SendAlert(context.Background(), "s", "b"), "throttled")
}

func TestPublishIsAsync(t *testing.T) {
	f := &fakeSNS{inputs: make(chan *sns.PublishInput, 1), err: errors.New("down")}
	c := &SNSClient{svc: f, topicArn: "arn"}
	ev := events.NewOverConsumption(domain.Pump{ID: 3, Reference: "P3"}, 140, 100, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Publish(ctx, ev))
	cancel()

	select {
	case in := <-f.inputs:
		assert.Contains(t, aws.ToString(in.Subject), "P3")
		assert.Contains(t, aws.ToString(in.Message), "140.00 kWh")
	case <-time.After(time.Second):
		t.Fatal("alert was not sent")
	}
}
