package events

import (
	"context"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type rabbitMQPublisher struct {
	Channel *amqp091.Channel
	Queue   string
	Log     *zap.Logger
	mu      sync.Mutex
}

// NewRabbitMQPublisher opens a channel on the connection and declares the
// durable form events queue.
func NewRabbitMQPublisher(rabbitMQConnection *amqp091.Connection, queue string, logger *zap.Logger) (contracts.FormEventPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	return &rabbitMQPublisher{
		Channel: channel,
		Queue:   queue,
		Log:     logger,
	}, nil
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, event *requests.FormEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	headers := amqp091.Table{
		"message_type":     "JSON",
		"requeue_strategy": "DROP",
	}
	headers[constvars.LoggingEventTypeKey] = event.Type

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Priority:     0,
		Headers:      headers,
	}

	p.mu.Lock()
	err = p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	p.mu.Unlock()
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.Queue)
	}

	p.Log.Debug("form event published",
		zap.String(constvars.LoggingQueueKey, p.Queue),
		zap.String(constvars.LoggingSessionIDKey, event.SessionID),
		zap.String(constvars.LoggingEventTypeKey, event.Type),
	)
	return nil
}

type logPublisher struct {
	Log *zap.Logger
}

// NewLogPublisher is used when no broker is configured; events are only logged.
func NewLogPublisher(logger *zap.Logger) contracts.FormEventPublisher {
	return &logPublisher{Log: logger}
}

func (p *logPublisher) Publish(ctx context.Context, event *requests.FormEvent) error {
	p.Log.Info("form event",
		zap.String(constvars.LoggingSessionIDKey, event.SessionID),
		zap.String(constvars.LoggingEventTypeKey, event.Type),
		zap.String(constvars.LoggingControlIDKey, event.ControlID),
		zap.String(constvars.LoggingUnitIDKey, event.UnitID),
		zap.String(constvars.LoggingRecordIDKey, event.RecordID),
		zap.String(constvars.LoggingPathKey, event.Path),
	)
	return nil
}
