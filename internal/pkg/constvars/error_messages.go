package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"min":              "must be at least %s characters long",
	"max":              "maximum at %s characters long",
	"oneof":            "must be one of [%s]",
	"gte":              "must be greater than or equal to %s",
	"lte":              "must be less than or equal to %s",
	"url":              "must be a valid URL",
	"uuid":             "must be a valid UUID",
	"required_without": "is required when %s is not present",
	"fhir_id":          "must be a valid FHIR resource id",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":              true,
	"max":              true,
	"gte":              true,
	"lte":              true,
	"oneof":            true,
	"required_without": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientFormSessionNotFound           = "the form you are editing is no longer available"
	ErrClientFormTargetNotFound            = "the field you are editing does not exist on this form"
	ErrClientFormRecordNotFound            = "the entry you are removing does not exist"
	ErrClientQuestionnaireNotFound         = "the requested questionnaire is not available"
	ErrClientAttachmentTooLarge            = "the file you uploaded is too large"
	ErrClientFormSaveInProgress            = "your answers are already being saved"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON          = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm   = "cannot parse multipart form body"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevSendHTTPRequest            = "failed to send HTTP request"
	ErrDevValidationFailed           = "validation failed"
	ErrDevURLParamIDValidationFailed = "parameter %s validation failed"
	ErrDevMissingRequestID           = "request id missing from context"

	// Spark messages
	ErrDevSparkCreateFHIRResource         = "failed to create FHIR %s from FHIR server"
	ErrDevSparkGetFHIRResource            = "failed to get FHIR %s from FHIR server"
	ErrDevSparkDecodeFHIRResourceResponse = "failed to decode FHIR %s response from FHIR server"

	// Form messages
	ErrDevFormSessionNotFound      = "form session %s not found or expired"
	ErrDevFormControlNotFound      = "control %s not found on form session"
	ErrDevFormUnitNotFound         = "repeating unit %s not found on form session"
	ErrDevFormRecordNotFound       = "record %s not found on repeating unit"
	ErrDevFormNotAMember           = "control is not a member of repeating unit %s"
	ErrDevFormRender               = "failed to render questionnaire %s"
	ErrDevFormAnswerPath           = "failed to write answer document"
	ErrDevFormControlNotAttachment = "control %s does not accept attachments"
	ErrDevFormSaveInProgress       = "answers of form session %s are already being saved"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioNotConfigured        = "attachment storage is not configured"
	ErrDevAttachmentTooLarge        = "attachment exceeds %d MB"

	// Redis messages
	ErrDevRedisSetData    = "failed to SET data into redis"
	ErrDevRedisGetData    = "failed to GET data from redis"
	ErrDevRedisDeleteData = "failed to DELETE data from redis"
	ErrDevRedisUnlock     = "failed to release lock in redis"

	// RabbitMQ messages
	ErrDevRabbitMQPublishMessage = "failed to publish message into queue %s"

	// Server messages
	ErrDevServerProcess          = "server failed to process something related to machine system"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
)

const (
	ErrEnvParsing = "Error parsing %s: %v, will use default value"
)
