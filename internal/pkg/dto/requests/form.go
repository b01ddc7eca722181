package requests

import (
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/valueset"
	"io"
)

type StartForm struct {
	QuestionnaireID string                       `json:"questionnaire_id" validate:"required_without_all=ProfileID Questionnaire,omitempty,fhir_id"`
	ProfileID       string                       `json:"profile_id" validate:"omitempty,fhir_id"`
	Questionnaire   *questionnaire.Questionnaire `json:"questionnaire"`
	ValueSets       valueset.Catalog             `json:"value_sets"`
	Answers         map[string]interface{}       `json:"answers"`
	Subject         string                       `json:"subject" validate:"omitempty,max=128"`
}

type ChangeValue struct {
	SessionID string      `json:"-" validate:"required,uuid"`
	ControlID string      `json:"-" validate:"required"`
	Value     interface{} `json:"value"`
}

type CommitRecord struct {
	SessionID string                 `json:"-" validate:"required,uuid"`
	UnitID    string                 `json:"-" validate:"required"`
	Values    map[string]interface{} `json:"values"`
}

type ResetRecord struct {
	SessionID string `validate:"required,uuid"`
	UnitID    string `validate:"required"`
}

type RemoveRecord struct {
	SessionID string `validate:"required,uuid"`
	UnitID    string `validate:"required"`
	RecordID  string `validate:"required"`
}

type UploadAttachment struct {
	SessionID   string `validate:"required,uuid"`
	ControlID   string `validate:"required"`
	FileName    string `validate:"required"`
	ContentType string
	Size        int64 `validate:"gte=0"`
	File        io.Reader
}

type FindForm struct {
	SessionID string `validate:"required,uuid"`
}
