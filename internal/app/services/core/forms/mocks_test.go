package forms

import (
	"context"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/valueset"
	"io"

	"github.com/stretchr/testify/mock"
)

type mockQuestionnaireFhirClient struct {
	mock.Mock
}

func (m *mockQuestionnaireFhirClient) FindQuestionnaireByID(ctx context.Context, questionnaireID string) (*questionnaire.Questionnaire, error) {
	args := m.Called(ctx, questionnaireID)
	if q, ok := args.Get(0).(*questionnaire.Questionnaire); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionnaireFhirClient) FindProfileQuestionnaire(ctx context.Context, profileID string) (*questionnaire.Questionnaire, error) {
	args := m.Called(ctx, profileID)
	if q, ok := args.Get(0).(*questionnaire.Questionnaire); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAnswerFhirClient struct {
	mock.Mock
}

func (m *mockAnswerFhirClient) PostAnswers(ctx context.Context, questionnaireID, subject string, doc answers.Mapping) (map[string]interface{}, error) {
	args := m.Called(ctx, questionnaireID, subject, doc)
	if outcome, ok := args.Get(0).(map[string]interface{}); ok {
		return outcome, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockValueSetUsecase struct {
	mock.Mock
}

func (m *mockValueSetUsecase) FindCatalog(ctx context.Context, root *questionnaire.Group, inline valueset.Catalog) (valueset.Catalog, error) {
	args := m.Called(ctx, root, inline)
	if catalog, ok := args.Get(0).(valueset.Catalog); ok {
		return catalog, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAttachmentStorage struct {
	mock.Mock
}

func (m *mockAttachmentStorage) UploadAttachment(ctx context.Context, objectName, contentType string, size int64, file io.Reader) (string, error) {
	args := m.Called(ctx, objectName, contentType, size, file)
	return args.String(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *requests.FormEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) eventTypes() []string {
	var types []string
	for _, call := range m.Calls {
		types = append(types, call.Arguments.Get(1).(*requests.FormEvent).Type)
	}
	return types
}
