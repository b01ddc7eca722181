package events

import (
	"context"
	"errors"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/formrender"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *requests.FormEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func fixedObserver(publisher *mockPublisher) *SessionObserver {
	observer := NewSessionObserver("session-1", publisher, zap.NewNop())
	observer.now = func() time.Time {
		return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	}
	return observer
}

func TestSessionObserver(t *testing.T) {
	t.Run("Value Committed", func(t *testing.T) {
		publisher := new(mockPublisher)
		publisher.On("Publish", mock.Anything, mock.AnythingOfType("*requests.FormEvent")).Return(nil).Once()

		observer := fixedObserver(publisher)
		observer.ValueCommitted("Patient.gender", answers.MustParsePath("Patient.gender"), answers.Scalar{V: "female"})

		publisher.AssertExpectations(t)
		event := publisher.Calls[0].Arguments.Get(1).(*requests.FormEvent)
		assert.Equal(t, requests.FormEventValueCommitted, event.Type)
		assert.Equal(t, "session-1", event.SessionID)
		assert.Equal(t, "Patient.gender", event.Path)
		assert.Equal(t, "female", event.Value)
		assert.Equal(t, 2024, event.OccurredAt.Year())
	})

	t.Run("Record Lifecycle", func(t *testing.T) {
		publisher := new(mockPublisher)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Twice()

		observer := fixedObserver(publisher)
		record := formrender.Record{ID: "rec-1", Value: answers.Mapping{"name": answers.Scalar{V: "Ann"}}}
		observer.RecordAdded("Patient.contact", record)
		observer.RecordRemoved("Patient.contact", record)

		publisher.AssertExpectations(t)
		added := publisher.Calls[0].Arguments.Get(1).(*requests.FormEvent)
		removed := publisher.Calls[1].Arguments.Get(1).(*requests.FormEvent)
		assert.Equal(t, requests.FormEventRecordAdded, added.Type)
		assert.Equal(t, map[string]interface{}{"name": "Ann"}, added.Value)
		assert.Equal(t, requests.FormEventRecordRemoved, removed.Type)
		assert.Equal(t, "rec-1", removed.RecordID)
		assert.Nil(t, removed.Value)
	})

	t.Run("Publish Failure Is Swallowed", func(t *testing.T) {
		publisher := new(mockPublisher)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		observer := fixedObserver(publisher)
		require.NotPanics(t, func() {
			observer.AnswersSaved("patient-intake")
		})
		publisher.AssertExpectations(t)
	})
}

func TestLogPublisher(t *testing.T) {
	publisher := NewLogPublisher(zap.NewNop())
	err := publisher.Publish(context.Background(), &requests.FormEvent{Type: requests.FormEventAnswersSaved})
	assert.NoError(t, err)
}
