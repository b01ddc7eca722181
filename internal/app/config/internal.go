package config

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	FHIR     AppFHIR     `mapstructure:"fhir"`
	JWT      AppJWT      `mapstructure:"jwt"`
	Form     AppForm     `mapstructure:"form"`
	Minio    AppMinio    `mapstructure:"minio"`
	RabbitMQ AppRabbitMQ `mapstructure:"rabbitmq"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
}

type AppFHIR struct {
	BaseUrl                 string `mapstructure:"base_url"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}

type AppForm struct {
	SessionTTLInMinutes         int `mapstructure:"session_ttl_in_minutes"`
	SessionSweepIntervalSeconds int `mapstructure:"session_sweep_interval_seconds"`
	ValueSetCacheTTLInMinutes   int `mapstructure:"valueset_cache_ttl_in_minutes"`
	AttachmentMaxSizeInMB       int `mapstructure:"attachment_max_size_in_mb"`
	EventQueueSize              int `mapstructure:"event_queue_size"`
}

type AppMinio struct {
	BucketName    string `mapstructure:"bucket_name"`
	PublicBaseUrl string `mapstructure:"public_base_url"`
}

type AppRabbitMQ struct {
	FormEventsQueue string `mapstructure:"form_events_queue"`
}
