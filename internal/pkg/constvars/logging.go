package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionIDKey      = "session_id"
	LoggingQuestionnaireKey  = "questionnaire_id"
	LoggingLinkIDKey         = "link_id"
	LoggingReasonKey         = "reason"
	LoggingControlIDKey      = "control_id"
	LoggingUnitIDKey         = "unit_id"
	LoggingRecordIDKey       = "record_id"
	LoggingValueSetIDKey     = "valueset_id"
	LoggingCacheKey          = "cache_key"
	LoggingQueueKey          = "queue"
	LoggingObjectKey         = "object"
	LoggingEventTypeKey      = "event_type"
	LoggingPathKey           = "path"
	LoggingRedisKey          = "redis_key"
	LoggingLockValueKey      = "lock_value"
	LoggingLockExpirationKey = "lock_expiration"

	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"
	LoggingSubjectKey    = "subject"
)
