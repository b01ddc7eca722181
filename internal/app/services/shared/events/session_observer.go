package events

import (
	"context"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/formrender"
	"time"

	"go.uber.org/zap"
)

var _ formrender.Observer = (*SessionObserver)(nil)

// SessionObserver forwards the writes of one form session to a publisher.
// It runs under the session lock, so the publisher must not block; the
// service wires an AsyncPublisher. Publish failures are logged and never fail
// the write itself.
type SessionObserver struct {
	SessionID string
	Publisher contracts.FormEventPublisher
	Log       *zap.Logger
	now       func() time.Time
}

func NewSessionObserver(sessionID string, publisher contracts.FormEventPublisher, logger *zap.Logger) *SessionObserver {
	return &SessionObserver{
		SessionID: sessionID,
		Publisher: publisher,
		Log:       logger,
		now:       time.Now,
	}
}

func (o *SessionObserver) ValueCommitted(controlID string, path answers.Path, value answers.Value) {
	o.publish(&requests.FormEvent{
		Type:      requests.FormEventValueCommitted,
		ControlID: controlID,
		Path:      path.String(),
		Value:     answers.ToInterface(value),
	})
}

func (o *SessionObserver) RecordAdded(unitID string, record formrender.Record) {
	o.publish(&requests.FormEvent{
		Type:     requests.FormEventRecordAdded,
		UnitID:   unitID,
		RecordID: record.ID,
		Value:    answers.ToInterface(record.Value),
	})
}

func (o *SessionObserver) RecordRemoved(unitID string, record formrender.Record) {
	o.publish(&requests.FormEvent{
		Type:     requests.FormEventRecordRemoved,
		UnitID:   unitID,
		RecordID: record.ID,
	})
}

// AnswersSaved reports a successful submission of the answer document.
func (o *SessionObserver) AnswersSaved(questionnaireID string) {
	o.publish(&requests.FormEvent{
		Type:  requests.FormEventAnswersSaved,
		Value: questionnaireID,
	})
}

func (o *SessionObserver) publish(event *requests.FormEvent) {
	event.SessionID = o.SessionID
	event.OccurredAt = o.now().UTC()

	err := o.Publisher.Publish(context.Background(), event)
	if err != nil {
		o.Log.Warn("failed to publish form event",
			zap.String(constvars.LoggingSessionIDKey, o.SessionID),
			zap.String(constvars.LoggingEventTypeKey, event.Type),
			zap.Error(err),
		)
	}
}
