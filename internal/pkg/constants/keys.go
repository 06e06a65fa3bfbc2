package constants

const (
	ViperConfigFile       = "config"
	ViperListenAddr       = "server.listen_addr"
	ViperAllowOrigins     = "server.allow_origins"
	ViperLogLevel         = "log.level"
	ViperLogDevelopment   = "log.development"
	ViperSecretKey        = "admin.secret"
	ViperTokenSigningKey  = "admin.signing_key"
	ViperFetchRetries     = "fetch.retries"
	ViperFetchTimeout     = "fetch.timeout"
	ViperFetchInterval    = "fetch.retry_interval"
	ViperFetchConcurrency = "fetch.concurrency"
	ViperCountryFlags     = "reference.country_flags"
	ViperCommunityFlags   = "reference.community_flags"
	ViperDatasets         = "datasets"
	ViperPostgresDSN      = "store.postgres_dsn"
	ViperSQLitePath       = "store.sqlite_path"
	ViperGeoLayers        = "geo"
	ViperExportDir        = "export.out_dir"
)

const EnvPrefix = "RDATLAS"

const (
	CookieKeySecretToken = "rdatlas_admin_token"

	HeaderRequestID = "X-Request-ID"
)

type ctxKey string

const (
	CtxKeyRequestID ctxKey = "request_id"
	CtxKeyDatasetID ctxKey = "dataset_id"
)
