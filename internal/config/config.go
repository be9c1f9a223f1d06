package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bagaspr/matchday/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	DBURL                        string
	DBDisablePreparedBinary      bool
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	CORSAllowedOrigins           []string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	PprofEnabled                 bool
	PprofAddr                    string
	VeritasBaseURL               string
	VeritasIntrospectPath        string
	VeritasAdminKey              string
	VeritasTimeout               time.Duration
	VeritasCacheTTL              time.Duration
	UptraceEnabled               bool
	UptraceDSN                   string
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	InternalJobToken             string
	ClockTickInterval            time.Duration
	AutoStartInterval            time.Duration
	JobPollInterval              time.Duration
	JobBatchSize                 int
	JobConcurrency               int
	JobBaseBackoff               time.Duration
	JobMaxBackoff                time.Duration
	JobMaxAttempts               int
	JobCircuitEnabled            bool
	JobCircuitFailureCount       int
	JobCircuitOpenTimeout        time.Duration
	JobCircuitHalfOpenMaxReq     int
	PlayerStatsCumulative        bool
	LogLevel                     logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofAddr == "" {
		pprofAddr = ":6060"
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	clockTickInterval, err := time.ParseDuration(getEnv("CLOCK_TICK_INTERVAL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOCK_TICK_INTERVAL: %w", err)
	}
	if clockTickInterval <= 0 {
		return Config{}, fmt.Errorf("CLOCK_TICK_INTERVAL must be > 0")
	}

	autoStartInterval, err := time.ParseDuration(getEnv("AUTO_START_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTO_START_INTERVAL: %w", err)
	}
	if autoStartInterval <= 0 {
		return Config{}, fmt.Errorf("AUTO_START_INTERVAL must be > 0")
	}

	jobPollInterval, err := time.ParseDuration(getEnv("JOB_POLL_INTERVAL", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_POLL_INTERVAL: %w", err)
	}
	if jobPollInterval <= 0 {
		return Config{}, fmt.Errorf("JOB_POLL_INTERVAL must be > 0")
	}

	jobBatchSize, err := getEnvAsInt("JOB_BATCH_SIZE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_BATCH_SIZE: %w", err)
	}
	if jobBatchSize < 1 {
		return Config{}, fmt.Errorf("JOB_BATCH_SIZE must be >= 1")
	}

	jobConcurrency, err := getEnvAsInt("JOB_CONCURRENCY", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CONCURRENCY: %w", err)
	}
	if jobConcurrency < 1 {
		return Config{}, fmt.Errorf("JOB_CONCURRENCY must be >= 1")
	}

	jobBaseBackoff, err := time.ParseDuration(getEnv("JOB_BASE_BACKOFF", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_BASE_BACKOFF: %w", err)
	}
	if jobBaseBackoff <= 0 {
		return Config{}, fmt.Errorf("JOB_BASE_BACKOFF must be > 0")
	}

	jobMaxBackoff, err := time.ParseDuration(getEnv("JOB_MAX_BACKOFF", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_MAX_BACKOFF: %w", err)
	}
	if jobMaxBackoff < jobBaseBackoff {
		return Config{}, fmt.Errorf("JOB_MAX_BACKOFF must be >= JOB_BASE_BACKOFF")
	}

	jobMaxAttempts, err := getEnvAsInt("JOB_MAX_ATTEMPTS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_MAX_ATTEMPTS: %w", err)
	}
	if jobMaxAttempts < 1 {
		return Config{}, fmt.Errorf("JOB_MAX_ATTEMPTS must be >= 1")
	}

	jobCircuitEnabled, err := strconv.ParseBool(getEnv("JOB_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CIRCUIT_ENABLED: %w", err)
	}
	jobCircuitFailureCount, err := getEnvAsInt("JOB_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if jobCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("JOB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	jobCircuitOpenTimeout, err := time.ParseDuration(getEnv("JOB_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if jobCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("JOB_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	jobCircuitHalfOpenMaxReq, err := getEnvAsInt("JOB_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if jobCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("JOB_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	playerStatsCumulative, err := strconv.ParseBool(getEnv("PLAYER_STATS_CUMULATIVE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_STATS_CUMULATIVE: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "matchday-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      getEnv("DB_URL", ""),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		VeritasBaseURL:             getEnv("VERITAS_BASE_URL", "http://localhost:8081"),
		VeritasIntrospectPath:      getEnv("VERITAS_INTROSPECT_PATH", "/v1/auth/introspect"),
		VeritasAdminKey:            getEnv("VERITAS_ADMIN_KEY", ""),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		ClockTickInterval:          clockTickInterval,
		AutoStartInterval:          autoStartInterval,
		JobPollInterval:            jobPollInterval,
		JobBatchSize:               jobBatchSize,
		JobConcurrency:             jobConcurrency,
		JobBaseBackoff:             jobBaseBackoff,
		JobMaxBackoff:              jobMaxBackoff,
		JobMaxAttempts:             jobMaxAttempts,
		JobCircuitEnabled:          jobCircuitEnabled,
		JobCircuitFailureCount:     jobCircuitFailureCount,
		JobCircuitOpenTimeout:      jobCircuitOpenTimeout,
		JobCircuitHalfOpenMaxReq:   jobCircuitHalfOpenMaxReq,
		PlayerStatsCumulative:      playerStatsCumulative,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	veritasTimeout, err := time.ParseDuration(getEnv("VERITAS_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VERITAS_TIMEOUT: %w", err)
	}

	veritasCacheTTL, err := time.ParseDuration(getEnv("VERITAS_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VERITAS_CACHE_TTL: %w", err)
	}
	if veritasCacheTTL < 0 {
		return Config{}, fmt.Errorf("VERITAS_CACHE_TTL must be >= 0")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.VeritasTimeout = veritasTimeout
	cfg.VeritasCacheTTL = veritasCacheTTL
	cfg.LogLevel = logLevel

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
