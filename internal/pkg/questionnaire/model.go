// Package questionnaire models the group/question tree of a FHIR Questionnaire
// definition as consumed by the form renderer.
package questionnaire

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

const ResourceType = "Questionnaire"

const (
	ExtensionTypeURL      = "http://www.healthintersections.com.au/fhir/Profile/metadata#type"
	ExtensionReferenceURL = "http://www.healthintersections.com.au/fhir/Profile/metadata#reference"
	ExtensionFlyoverURL   = "http://hl7.org/fhir/StructureDefinition/flyover"
)

// Question types understood by the renderer. Anything else renders as text.
const (
	TypeBoolean    = "boolean"
	TypeDecimal    = "decimal"
	TypeInteger    = "integer"
	TypeDate       = "date"
	TypeDateTime   = "dateTime"
	TypeInstant    = "instant"
	TypeTime       = "time"
	TypeString     = "string"
	TypeText       = "text"
	TypeURL        = "url"
	TypeChoice     = "choice"
	TypeOpenChoice = "open-choice"
	TypeAttachment = "attachment"
	TypeReference  = "reference"
	TypeQuantity   = "quantity"
)

var ErrInvalidQuestionnaire = errors.New("invalid questionnaire")

type Questionnaire struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id,omitempty"`
	Version      string `json:"version,omitempty"`
	Status       string `json:"status,omitempty"`
	Date         string `json:"date,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	Group        *Group `json:"group"`
}

type Group struct {
	LinkID    string      `json:"linkId,omitempty"`
	Title     string      `json:"title,omitempty"`
	Text      string      `json:"text,omitempty"`
	Required  bool        `json:"required,omitempty"`
	Repeats   bool        `json:"repeats,omitempty"`
	Extension []Extension `json:"extension,omitempty"`
	Group     []*Group    `json:"group,omitempty"`
	Question  []*Question `json:"question,omitempty"`
}

type Question struct {
	LinkID    string      `json:"linkId,omitempty"`
	Text      string      `json:"text,omitempty"`
	Type      string      `json:"type,omitempty"`
	Required  bool        `json:"required,omitempty"`
	Repeats   bool        `json:"repeats,omitempty"`
	Options   *Reference  `json:"options,omitempty"`
	Extension []Extension `json:"extension,omitempty"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Extension struct {
	URL          string `json:"url"`
	ValueString  string `json:"valueString,omitempty"`
	ValueCode    string `json:"valueCode,omitempty"`
	ValueURI     string `json:"valueUri,omitempty"`
	ValueBoolean *bool  `json:"valueBoolean,omitempty"`
}

// Parse decodes a Questionnaire resource.
func Parse(data []byte) (*Questionnaire, error) {
	questionnaire := new(Questionnaire)
	if err := json.Unmarshal(data, questionnaire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestionnaire, err)
	}
	if err := questionnaire.check(); err != nil {
		return nil, err
	}
	return questionnaire, nil
}

func (q *Questionnaire) check() error {
	if q.ResourceType != "" && q.ResourceType != ResourceType {
		return fmt.Errorf("%w: expected resourceType %s, got %s", ErrInvalidQuestionnaire, ResourceType, q.ResourceType)
	}
	if q.Group == nil {
		return fmt.Errorf("%w: missing root group", ErrInvalidQuestionnaire)
	}
	return nil
}

// ReferenceValue returns the option reference of a question, or "".
func (q *Question) ReferenceValue() string {
	if q.Options == nil {
		return ""
	}
	return q.Options.Reference
}

// HasChildGroups reports whether sub-groups take over rendering of this group.
func (g *Group) HasChildGroups() bool {
	return len(g.Group) > 0
}

func (g *Group) TypeName() string {
	return extensionString(g.Extension, ExtensionTypeURL)
}

// Reference returns the resource type named by the group's reference marker.
func (g *Group) Reference() string {
	return extensionString(g.Extension, ExtensionReferenceURL)
}

func (g *Group) TypeClass() TypeClass {
	return ClassifyType(g.TypeName())
}

// HelpText is the group text, falling back to its flyover extension.
func (g *Group) HelpText() string {
	if g.Text != "" {
		return g.Text
	}
	return extensionString(g.Extension, ExtensionFlyoverURL)
}

func extensionString(extensions []Extension, url string) string {
	for _, extension := range extensions {
		if extension.URL != url {
			continue
		}
		switch {
		case extension.ValueString != "":
			return extension.ValueString
		case extension.ValueCode != "":
			return extension.ValueCode
		case extension.ValueURI != "":
			return extension.ValueURI
		}
	}
	return ""
}
