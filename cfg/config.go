package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether settings should live in redis instead of memory.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type DuffelClientConfig struct {
	BaseURL        string
	APIVersion     string
	TimeoutSeconds int
	RateLimitRPS   float64
	RateLimitBurst int
	// Seed credentials written to the settings store when it holds no key.
	SeedAPIKey      string
	SeedEnvironment string
}

type ObservabilityConfig struct {
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

// Enabled reports whether traces and metrics should be exported.
func (o ObservabilityConfig) Enabled() bool {
	return o.OTLPEndpoint != ""
}

type Config struct {
	AppEnv          string
	AppPort         string
	AdminToken      string
	SnowflakeNodeID int64
	RedisConfig     RedisConfig
	DuffelConfig    DuffelClientConfig
	Observability   ObservabilityConfig
}

func Load() (*Config, error) {
	var errs []error

	// A missing .env is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := envOr("APP_PORT", "8080")
	adminToken := envOr("ADMIN_TOKEN", "")
	nodeID := intEnv("SNOWFLAKE_NODE_ID", 1, &errs)

	redisHost := envOr("REDIS_HOST", "")
	redisPort := envOr("REDIS_PORT", "6379")
	redisPassword := envOr("REDIS_PASSWORD", "")

	duffelBaseURL := envOr("DUFFEL_BASE_URL", "https://api.duffel.com")
	duffelVersion := envOr("DUFFEL_API_VERSION", "v2")
	duffelTimeout := intEnv("DUFFEL_TIMEOUT_SECONDS", 20, &errs)
	duffelRPS := floatEnv("DUFFEL_RATE_LIMIT_RPS", 5, &errs)
	duffelBurst := intEnv("DUFFEL_RATE_LIMIT_BURST", 10, &errs)

	if duffelTimeout <= 0 {
		errs = append(errs, errors.New("invalid env: DUFFEL_TIMEOUT_SECONDS must be positive"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:          appEnv,
		AppPort:         appPort,
		AdminToken:      adminToken,
		SnowflakeNodeID: int64(nodeID),
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		DuffelConfig: DuffelClientConfig{
			BaseURL:         duffelBaseURL,
			APIVersion:      duffelVersion,
			TimeoutSeconds:  duffelTimeout,
			RateLimitRPS:    duffelRPS,
			RateLimitBurst:  duffelBurst,
			SeedAPIKey:      envOr("DUFFEL_API_KEY", ""),
			SeedEnvironment: envOr("DUFFEL_API_ENVIRONMENT", ""),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: envOr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  envOr("OTEL_SERVICE_NAME", "duffel-travel"),
			Environment:  appEnv,
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	value := envOr(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64, errs *[]error) float64 {
	value := envOr(key, "")
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return f
}
