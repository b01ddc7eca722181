package constvars

const (
	ResourceQuestionnaire = "Questionnaire"
	ResourceValueSet      = "ValueSet"
	ResourceProfile       = "Profile"
)

const (
	FhirOperationQuestionnaire = "$questionnaire"
	FhirOperationExpand        = "$expand"
	FhirOperationAnswersPost   = "$qa-post"
)
