package questionnaires

import (
	"context"
	"errors"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/exceptions"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/utils"
	"io"
	"net/http"
	"time"
)

type questionnaireFhirClient struct {
	BaseUrl    string
	HTTPClient *http.Client
}

func NewQuestionnaireFhirClient(baseUrl string, timeout time.Duration) contracts.QuestionnaireFhirClient {
	return &questionnaireFhirClient{
		BaseUrl:    baseUrl,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *questionnaireFhirClient) FindQuestionnaireByID(ctx context.Context, questionnaireID string) (*questionnaire.Questionnaire, error) {
	url := c.BaseUrl + constvars.ResourceQuestionnaire + "/" + questionnaireID
	return c.getQuestionnaire(ctx, url)
}

// FindProfileQuestionnaire asks the server to generate the questionnaire of a
// profile through the $questionnaire operation.
func (c *questionnaireFhirClient) FindProfileQuestionnaire(ctx context.Context, profileID string) (*questionnaire.Questionnaire, error) {
	url := c.BaseUrl + constvars.ResourceProfile + "/" + profileID + "/" + constvars.FhirOperationQuestionnaire
	return c.getQuestionnaire(ctx, url)
}

func (c *questionnaireFhirClient) getQuestionnaire(ctx context.Context, url string) (*questionnaire.Questionnaire, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, exceptions.ErrServerDeadlineExceeded(err)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		fhirErrorIssue := utils.ParseOperationOutcome(resp.Body, resp.StatusCode)
		return nil, exceptions.ErrNotFoundFHIRResource(fhirErrorIssue, constvars.ResourceQuestionnaire)
	}
	if resp.StatusCode != constvars.StatusOK {
		fhirErrorIssue := utils.ParseOperationOutcome(resp.Body, resp.StatusCode)
		return nil, exceptions.ErrGetFHIRResource(fhirErrorIssue, constvars.ResourceQuestionnaire)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrGetFHIRResource(err, constvars.ResourceQuestionnaire)
	}

	result, err := questionnaire.Parse(body)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceQuestionnaire)
	}
	return result, nil
}
