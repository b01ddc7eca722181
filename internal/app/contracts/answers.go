package contracts

import (
	"context"
	"fhirstarter-service/internal/pkg/answers"
)

type QuestionnaireAnswerFhirClient interface {
	PostAnswers(ctx context.Context, questionnaireID, subject string, doc answers.Mapping) (map[string]interface{}, error)
}
