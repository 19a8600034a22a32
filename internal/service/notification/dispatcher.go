package notification

import (
	"context"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
	"github.com/jwalitptl/medreminder-api/pkg/messaging"
)

// Dispatcher hands a stored notification to whatever delivers it.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *model.Notification) error
}

const messageType = "notification.reminder"

type brokerDispatcher struct {
	broker  messaging.Broker
	channel string
}

// NewBrokerDispatcher publishes each notification to channel.
func NewBrokerDispatcher(broker messaging.Broker, channel string) Dispatcher {
	return &brokerDispatcher{broker: broker, channel: channel}
}

func (d *brokerDispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	return d.broker.Publish(ctx, d.channel, messaging.Message{
		Type:    messageType,
		Payload: n,
	})
}

type logDispatcher struct {
	logger *logger.Logger
}

// NewLogDispatcher only logs; used when no broker is configured.
func NewLogDispatcher(log *logger.Logger) Dispatcher {
	return &logDispatcher{logger: log}
}

func (d *logDispatcher) Dispatch(_ context.Context, n *model.Notification) error {
	d.logger.Info("notification dispatched",
		"notification_id", n.ID.String(),
		"patient_id", n.PatientID.String(),
		"title", n.Title,
	)
	return nil
}
