package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patientQuestionnaire = `{
  "resourceType": "Questionnaire",
  "id": "patient-profile",
  "status": "published",
  "group": {
    "linkId": "Patient",
    "extension": [{"url": "http://www.healthintersections.com.au/fhir/Profile/metadata#type", "valueString": "Patient"}],
    "group": [
      {
        "linkId": "Patient.gender",
        "question": [{"linkId": "Patient.gender.value", "type": "choice", "options": {"reference": "#administrative-gender"}}]
      },
      {
        "linkId": "Patient.contact",
        "repeats": true,
        "question": [
          {"linkId": "Patient.contact.name", "type": "string"},
          {"linkId": "Patient.contact.phone", "type": "string"}
        ]
      }
    ]
  }
}`

func TestParse(t *testing.T) {
	t.Run("Valid Questionnaire", func(t *testing.T) {
		q, err := Parse([]byte(patientQuestionnaire))
		require.NoError(t, err)

		assert.Equal(t, "patient-profile", q.ID)
		require.NotNil(t, q.Group)
		assert.Equal(t, TypeClassResource, q.Group.TypeClass())
		require.Len(t, q.Group.Group, 2)
		assert.Equal(t, "#administrative-gender", q.Group.Group[0].Question[0].ReferenceValue())
		assert.True(t, q.Group.Group[1].Repeats)
	})

	t.Run("Wrong Resource Type", func(t *testing.T) {
		_, err := Parse([]byte(`{"resourceType":"Patient","group":{"linkId":"x"}}`))
		assert.ErrorIs(t, err, ErrInvalidQuestionnaire)
	})

	t.Run("Missing Root Group", func(t *testing.T) {
		_, err := Parse([]byte(`{"resourceType":"Questionnaire"}`))
		assert.ErrorIs(t, err, ErrInvalidQuestionnaire)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{"resourceType":`))
		assert.ErrorIs(t, err, ErrInvalidQuestionnaire)
	})
}

func TestNormalizeLinkID(t *testing.T) {
	testCases := []struct {
		linkID    string
		controlID string
		path      string
	}{
		{"a.b[x].value", "a.b[x]", "a.b"},
		{"a.b", "a.b", "a.b"},
		{"a.b.value", "a.b", "a.b"},
		{"Patient.deceased[x]", "Patient.deceased[x]", "Patient.deceased"},
		{"value", "value", "value"},
		{"a.valueString", "a.valueString", "a.valueString"},
	}

	for _, tc := range testCases {
		t.Run(tc.linkID, func(t *testing.T) {
			controlID, path := NormalizeLinkID(tc.linkID)
			assert.Equal(t, tc.controlID, controlID)
			assert.Equal(t, tc.path, path)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Birth Date", Label("Patient.birthDate"))
	assert.Equal(t, "Deceased", Label("Patient.deceased[x].value"))
	assert.Equal(t, "Gender", Label("gender"))
	assert.Equal(t, "", Label(""))
}

func TestTypeClass(t *testing.T) {
	assert.Equal(t, TypeClassPrimitive, ClassifyType("dateTime"))
	assert.Equal(t, TypeClassComplex, ClassifyType("HumanName"))
	assert.Equal(t, TypeClassResource, ClassifyType("Organization"))
	assert.Equal(t, TypeClassUnknown, ClassifyType("Nonsense"))

	group := &Group{Extension: []Extension{
		{URL: ExtensionTypeURL, ValueString: "Address"},
		{URL: ExtensionReferenceURL, ValueString: "Organization"},
		{URL: ExtensionFlyoverURL, ValueString: "Where the patient lives"},
	}}
	assert.Equal(t, TypeClassComplex, group.TypeClass())
	assert.Equal(t, "Organization", group.Reference())
	assert.Equal(t, "Where the patient lives", group.HelpText())

	group.Text = "Home address"
	assert.Equal(t, "Home address", group.HelpText())
}

func TestValidate(t *testing.T) {
	t.Run("Well Formed", func(t *testing.T) {
		q, err := Parse([]byte(patientQuestionnaire))
		require.NoError(t, err)
		assert.Empty(t, Validate(q.Group))
	})

	t.Run("Collects Errors", func(t *testing.T) {
		root := &Group{
			LinkID: "root",
			Group: []*Group{
				{Question: []*Question{{LinkID: "a"}}},
				{
					LinkID:  "rep",
					Repeats: true,
					Question: []*Question{
						{LinkID: "rep.x", Repeats: true},
						{Type: TypeString},
					},
				},
			},
		}

		errs := Validate(root)
		require.Len(t, errs, 3)
		assert.Equal(t, ReasonMissingLinkID, errs[0].Reason)
		assert.Equal(t, ReasonNestedRepeats, errs[1].Reason)
		assert.Equal(t, "rep.x", errs[1].LinkID)
		assert.Equal(t, ReasonMissingLinkID, errs[2].Reason)
		for _, err := range errs {
			assert.ErrorIs(t, err, ErrDefinition)
			assert.True(t, err.Fatal())
		}
	})

	t.Run("Groups And Questions Is A Warning", func(t *testing.T) {
		root := &Group{
			LinkID:   "root",
			Group:    []*Group{{LinkID: "child"}},
			Question: []*Question{{LinkID: "ignored"}},
		}
		errs := Validate(root)
		require.Len(t, errs, 1)
		assert.False(t, errs[0].Fatal())
	})

	t.Run("Cycle", func(t *testing.T) {
		root := &Group{LinkID: "root"}
		root.Group = []*Group{root}

		errs := Validate(root)
		require.Len(t, errs, 1)
		assert.Equal(t, ReasonCycle, errs[0].Reason)
	})
}
