package responses

import (
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/formrender"
	"fhirstarter-service/internal/pkg/questionnaire"
	"time"

	"github.com/goccy/go-json"
)

type FormSession struct {
	SessionID       string                           `json:"session_id"`
	QuestionnaireID string                           `json:"questionnaire_id,omitempty"`
	Subject         string                           `json:"subject,omitempty"`
	Form            json.RawMessage                  `json:"form"`
	Units           []FormUnit                       `json:"units,omitempty"`
	Answers         answers.Mapping                  `json:"answers"`
	Errors          []*questionnaire.DefinitionError `json:"errors,omitempty"`
	ExpiresAt       time.Time                        `json:"expires_at"`
}

type FormUnit struct {
	UnitID  string              `json:"unit_id"`
	Path    string              `json:"path"`
	Members []string            `json:"members"`
	Records []formrender.Record `json:"records"`
}

type ChangedValue struct {
	ControlID string        `json:"control_id"`
	Path      string        `json:"path"`
	Value     answers.Value `json:"value"`
}

type CommittedRecord struct {
	UnitID  string              `json:"unit_id"`
	Record  formrender.Record   `json:"record"`
	Records []formrender.Record `json:"records"`
}

type Attachment struct {
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
}

type SavedAnswers struct {
	SessionID string                 `json:"session_id"`
	Outcome   map[string]interface{} `json:"outcome,omitempty"`
}
