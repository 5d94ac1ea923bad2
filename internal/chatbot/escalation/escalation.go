// Package escalation hands a conversation over to a human when the user asks
// for one.
package escalation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	awsclient "banking-chatbot/internal/common/aws"
	apperrors "banking-chatbot/internal/common/errors"
	"banking-chatbot/internal/common/logger"
	"banking-chatbot/internal/common/metrics"
)

// Event is published once per escalation request.
type Event struct {
	SessionID string    `json:"session_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }

// SNSNotifier publishes events as JSON to an SNS topic.
type SNSNotifier struct {
	client   awsclient.SNSPublisher
	topicARN string
	timeout  time.Duration
}

func NewSNSNotifier(client awsclient.SNSPublisher, topicARN string, timeout time.Duration) *SNSNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SNSNotifier{client: client, topicARN: topicARN, timeout: timeout}
}

func (n *SNSNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewEscalationNotifyFailedError(fmt.Errorf("encode event: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	input := &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("Chat escalation requested"),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String("chat.escalation")},
		},
	}
	if event.SessionID != "" {
		input.MessageAttributes["session_id"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(event.SessionID),
		}
	}

	if _, err := n.client.Publish(ctx, input); err != nil {
		return apperrors.NewEscalationNotifyFailedError(err)
	}
	return nil
}

// Dispatcher sends notifications off the request path. Failures are logged
// and counted; they never reach the user.
type Dispatcher struct {
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewDispatcher(notifier Notifier, log logger.Logger) *Dispatcher {
	if notifier == nil {
		notifier = Noop{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dispatcher{notifier: notifier, log: logger.Component(log, "escalation"), now: time.Now}
}

// Escalate publishes in the background and returns a channel that is closed
// when the attempt finishes.
func (d *Dispatcher) Escalate(ctx context.Context, sessionID, message string) <-chan struct{} {
	done := make(chan struct{})
	event := Event{SessionID: sessionID, Message: message, Timestamp: d.now().UTC()}
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(done)
		if err := d.notifier.Notify(ctx, event); err != nil {
			metrics.EscalationsTotal.WithLabelValues("failed").Inc()
			d.log.Error("escalation notification failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err,
			})
			return
		}
		metrics.EscalationsTotal.WithLabelValues("sent").Inc()
		d.log.Info("escalation notification sent", map[string]interface{}{
			"session_id": sessionID,
		})
	}()
	return done
}
