package valuesets

import (
	"context"
	"errors"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/exceptions"
	"fhirstarter-service/internal/pkg/utils"
	"fhirstarter-service/internal/pkg/valueset"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

type valueSetFhirClient struct {
	BaseUrl    string
	HTTPClient *http.Client
}

func NewValueSetFhirClient(baseUrl string, timeout time.Duration) contracts.ValueSetFhirClient {
	return &valueSetFhirClient{
		BaseUrl:    baseUrl + constvars.ResourceValueSet,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *valueSetFhirClient) FindValueSetByID(ctx context.Context, valueSetID string) (*valueset.ValueSet, error) {
	return c.getValueSet(ctx, c.BaseUrl+"/"+valueSetID)
}

// ExpandValueSet runs $expand so that the returned set carries an expansion
// even when the stored resource only holds a compose definition.
func (c *valueSetFhirClient) ExpandValueSet(ctx context.Context, valueSetID string) (*valueset.ValueSet, error) {
	result, err := c.getValueSet(ctx, c.BaseUrl+"/"+valueSetID+"/"+constvars.FhirOperationExpand)
	if err != nil {
		return nil, err
	}
	if result.ID == "" {
		result.ID = valueSetID
	}
	return result, nil
}

func (c *valueSetFhirClient) getValueSet(ctx context.Context, url string) (*valueset.ValueSet, error) {
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
		return nil, exceptions.ErrNotFoundFHIRResource(fhirErrorIssue, constvars.ResourceValueSet)
	}
	if resp.StatusCode != constvars.StatusOK {
		fhirErrorIssue := utils.ParseOperationOutcome(resp.Body, resp.StatusCode)
		return nil, exceptions.ErrGetFHIRResource(fhirErrorIssue, constvars.ResourceValueSet)
	}

	result := new(valueset.ValueSet)
	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceValueSet)
	}
	return result, nil
}
