package utils

import (
	"errors"
	"fhirstarter-service/internal/pkg/dto/responses"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ParseOperationOutcome turns a non-OK FHIR response body into an error
// carrying the first issue's diagnostics.
func ParseOperationOutcome(body io.Reader, statusCode int) error {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	var outcome responses.OperationOutcome
	err = json.Unmarshal(bodyBytes, &outcome)
	if err != nil || len(outcome.Issue) == 0 {
		return fmt.Errorf("FHIR server responded with status %d", statusCode)
	}
	return errors.New(outcome.Issue[0].Diagnostics)
}
