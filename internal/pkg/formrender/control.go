package formrender

import (
	"errors"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/valueset"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	ErrUnknownControl = errors.New("unknown control")
	ErrUnknownUnit    = errors.New("unknown repeating unit")
	ErrRecordNotFound = errors.New("record not found")
	ErrNotAMember     = errors.New("control is not a member of the repeating unit")
)

type InputKind string

const (
	InputCheckbox InputKind = "checkbox"
	InputSelect   InputKind = "select"
	InputText     InputKind = "text"
	InputDate     InputKind = "date"
	InputDateTime InputKind = "datetime"
	InputTime     InputKind = "time"
	InputNumber   InputKind = "number"
	InputURL      InputKind = "url"
	InputFile     InputKind = "file"
)

func inputKindFor(questionType string) InputKind {
	switch questionType {
	case questionnaire.TypeBoolean:
		return InputCheckbox
	case questionnaire.TypeDate:
		return InputDate
	case questionnaire.TypeDateTime, questionnaire.TypeInstant:
		return InputDateTime
	case questionnaire.TypeTime:
		return InputTime
	case questionnaire.TypeDecimal, questionnaire.TypeInteger:
		return InputNumber
	case questionnaire.TypeURL:
		return InputURL
	case questionnaire.TypeAttachment:
		return InputFile
	default:
		return InputText
	}
}

// Control is the handle of one rendered input. It holds the displayed value;
// when the control is not write-suppressed every change is also written into
// the answer document.
type Control struct {
	ID          string
	Path        answers.Path
	Type        string
	Input       InputKind
	Required    bool
	Placeholder string
	Options     []valueset.Coding

	// Suppressed controls belong to a repeating unit and only reach the
	// document through a committed record.
	Suppressed bool

	value  answers.Value
	commit func(answers.Value) error
}

func (c *Control) Value() answers.Value {
	if c.value == nil {
		return answers.Null
	}
	return c.value
}

// Change handles an input event: the raw value is coerced for the input kind,
// displayed and, unless suppressed, written through.
func (c *Control) Change(raw interface{}) (answers.Value, error) {
	value := c.coerce(raw)
	c.value = value
	if c.Suppressed || c.commit == nil {
		return value, nil
	}
	return value, c.commit(value)
}

// accepts reports whether a pre-seeded answer can be displayed as is. Only
// structured inputs show a mapping; no control shows a sequence.
func (c *Control) accepts(value answers.Value) bool {
	switch value.(type) {
	case answers.Scalar:
		return true
	case answers.Mapping:
		switch {
		case c.Input == InputSelect, c.Input == InputFile:
			return true
		default:
			return c.Type == questionnaire.TypeReference || c.Type == questionnaire.TypeQuantity
		}
	default:
		return false
	}
}

// Clear blanks the displayed value without touching the document.
func (c *Control) Clear() {
	c.value = answers.Null
}

func (c *Control) coerce(raw interface{}) answers.Value {
	if raw == nil {
		return answers.Null
	}
	switch c.Input {
	case InputCheckbox:
		if s, ok := raw.(string); ok {
			switch strings.ToLower(s) {
			case "true", "on", "1":
				return answers.NewScalar(true)
			case "false", "off", "0", "":
				return answers.NewScalar(false)
			}
		}
	case InputNumber:
		if s, ok := raw.(string); ok && s != "" {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return answers.NewScalar(n)
			}
		}
	case InputSelect:
		if code, ok := raw.(string); ok {
			for _, option := range c.Options {
				if option.Code == code {
					return codingValue(option)
				}
			}
		}
	}
	if s, ok := raw.(string); ok && s == "" {
		return answers.Null
	}
	return answers.FromInterface(raw)
}

func codingValue(coding valueset.Coding) answers.Mapping {
	value := answers.Mapping{"code": answers.NewScalar(coding.Code)}
	if coding.System != "" {
		value["system"] = answers.NewScalar(coding.System)
	}
	if coding.Display != "" {
		value["display"] = answers.NewScalar(coding.Display)
	}
	return value
}

type controlView struct {
	ID          string            `json:"id"`
	Path        string            `json:"path"`
	Type        string            `json:"type,omitempty"`
	Input       InputKind         `json:"input"`
	Required    bool              `json:"required,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Options     []valueset.Coding `json:"options,omitempty"`
	Suppressed  bool              `json:"suppressed,omitempty"`
	Value       answers.Value     `json:"value"`
}

func (c *Control) MarshalJSON() ([]byte, error) {
	return json.Marshal(controlView{
		ID:          c.ID,
		Path:        c.Path.String(),
		Type:        c.Type,
		Input:       c.Input,
		Required:    c.Required,
		Placeholder: c.Placeholder,
		Options:     c.Options,
		Suppressed:  c.Suppressed,
		Value:       c.Value(),
	})
}
