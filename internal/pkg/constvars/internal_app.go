package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_JWT_CLAIMS_KEY           ContextKey = "jwt_claims"
)

const (
	REQUEST_ID_PREFIX = "FHST_SVC_"
)

const (
	URLParamSessionID = "session_id"
	URLParamControlID = "control_id"
	URLParamUnitID    = "unit_id"
	URLParamRecordID  = "record_id"
)

const (
	FormFieldAttachment = "file"
)

const (
	RedisKeyPrefixValueSet = "valueset:"
	RedisKeyPrefixFormSave = "form-save:"
)
