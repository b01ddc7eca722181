package questionnaire

type TypeClass string

const (
	TypeClassUnknown   TypeClass = ""
	TypeClassPrimitive TypeClass = "Primitive"
	TypeClassComplex   TypeClass = "Complex"
	TypeClassResource  TypeClass = "Resource"
)

var primitiveTypes = setOf(
	"base64Binary", "boolean", "code", "date", "dateTime", "decimal", "id", "instant",
	"integer", "oid", "positiveInt", "string", "time", "unsignedInt", "uri", "uuid",
)

var complexTypes = setOf(
	"Address", "Age", "Annotation", "Attachment", "CodeableConcept", "Coding", "ContactPoint",
	"Count", "Distance", "Duration", "HumanName", "Identifier", "Money", "Period", "Quantity",
	"Range", "Ratio", "Reference", "SampledData", "Signature", "Timing",
)

var resourceTypes = setOf(
	"AllergyIntolerance", "Appointment", "CarePlan", "Condition", "Contract", "Device",
	"DiagnosticReport", "Encounter", "FamilyMemberHistory", "Group", "HealthcareService",
	"Immunization", "Location", "Medication", "MedicationOrder", "Observation", "Organization",
	"Patient", "Person", "Practitioner", "Procedure", "Questionnaire", "QuestionnaireResponse",
	"RelatedPerson", "Schedule", "Slot", "ValueSet",
)

// ClassifyType maps a FHIR type name to its classification.
func ClassifyType(typeName string) TypeClass {
	switch {
	case typeName == "":
		return TypeClassUnknown
	case primitiveTypes[typeName]:
		return TypeClassPrimitive
	case complexTypes[typeName]:
		return TypeClassComplex
	case resourceTypes[typeName]:
		return TypeClassResource
	default:
		return TypeClassUnknown
	}
}

func setOf(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
