package questionnaire_answers

import (
	"bytes"
	"context"
	"errors"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/exceptions"
	"fhirstarter-service/internal/pkg/utils"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

type questionnaireAnswerFhirClient struct {
	BaseUrl    string
	HTTPClient *http.Client
}

func NewQuestionnaireAnswerFhirClient(baseUrl string, timeout time.Duration) contracts.QuestionnaireAnswerFhirClient {
	return &questionnaireAnswerFhirClient{
		BaseUrl:    baseUrl + constvars.FhirOperationAnswersPost,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// PostAnswers sends the answer document to the server level $qa-post
// operation. The questionnaire and subject are attached as references.
func (c *questionnaireAnswerFhirClient) PostAnswers(ctx context.Context, questionnaireID, subject string, doc answers.Mapping) (map[string]interface{}, error) {
	payload, ok := answers.ToInterface(doc).(map[string]interface{})
	if !ok || payload == nil {
		payload = make(map[string]interface{})
	}
	if questionnaireID != "" {
		payload["questionnaire"] = map[string]interface{}{
			"reference": constvars.ResourceQuestionnaire + "/" + questionnaireID,
		}
	}
	if subject != "" {
		payload["subject"] = map[string]interface{}{"reference": subject}
	}

	requestJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(requestJSON))
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

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		fhirErrorIssue := utils.ParseOperationOutcome(resp.Body, resp.StatusCode)
		return nil, exceptions.ErrCreateFHIRResource(fhirErrorIssue, constvars.FhirOperationAnswersPost)
	}

	var result map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, exceptions.ErrDecodeResponse(err, constvars.FhirOperationAnswersPost)
	}
	return result, nil
}
