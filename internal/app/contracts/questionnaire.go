package contracts

import (
	"context"
	"fhirstarter-service/internal/pkg/questionnaire"
)

type QuestionnaireFhirClient interface {
	FindQuestionnaireByID(ctx context.Context, questionnaireID string) (*questionnaire.Questionnaire, error)
	FindProfileQuestionnaire(ctx context.Context, profileID string) (*questionnaire.Questionnaire, error)
}
