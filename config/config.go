// Package config provides configuration management for the assembly service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Engine   EngineConfig
	Events   EventWriterConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
}

// CacheConfig holds caching configuration for the product resolver and the
// box catalog.
type CacheConfig struct {
	Size       int
	TTL        time.Duration
	BoxListTTL time.Duration
}

// EngineConfig holds the tunable parameters of the assembly engine.
type EngineConfig struct {
	ToleranceType       string
	TolerancePercentage float64
	ToleranceGrams      float64
	SettleDelay         time.Duration
	RetryDelay          time.Duration
	ScanCooldown        time.Duration
	DisableScanCooldown bool
	SpikeThreshold      float64
	SampleCacheDuration time.Duration
	PollInterval        time.Duration
	MaxKitDepth         int
	HeavyUnitThreshold  float64
	MaxBoxWeight        float64
}

// EventWriterConfig holds the async event persistence configuration.
type EventWriterConfig struct {
	BufferSize   int
	NumWorkers   int
	WriteTimeout time.Duration
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	EventsTTL    time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   getEnvInt("RATE_LIMIT", 100),
			RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser: getEnv("SWAGGER_USER", ""),
			SwaggerPass: getEnv("SWAGGER_PASS", ""),
		},
		Cache: CacheConfig{
			Size:       getEnvInt("CACHE_SIZE", 1000),
			TTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
			BoxListTTL: getEnvDuration("BOX_LIST_CACHE_TTL", 30*time.Second),
		},
		Engine: EngineConfig{
			ToleranceType:       getEnv("TOLERANCE_TYPE", string(model.ToleranceCombined)),
			TolerancePercentage: getEnvFloat("TOLERANCE_PERCENTAGE", 1.5),
			ToleranceGrams:      getEnvFloat("TOLERANCE_GRAMS", 5),
			SettleDelay:         getEnvDuration("SETTLE_DELAY", 1500*time.Millisecond),
			RetryDelay:          getEnvDuration("RETRY_DELAY", 2*time.Second),
			ScanCooldown:        getEnvDuration("SCAN_COOLDOWN", 2*time.Second),
			DisableScanCooldown: getEnvBool("DISABLE_SCAN_COOLDOWN", false),
			SpikeThreshold:      getEnvFloat("SPIKE_THRESHOLD_KG", 5.0),
			SampleCacheDuration: getEnvDuration("SAMPLE_CACHE_DURATION", time.Second),
			PollInterval:        getEnvDuration("SAMPLE_POLL_INTERVAL", 250*time.Millisecond),
			MaxKitDepth:         getEnvInt("MAX_KIT_DEPTH", 10),
			HeavyUnitThreshold:  getEnvFloat("HEAVY_UNIT_THRESHOLD_KG", 0.4),
			MaxBoxWeight:        getEnvFloat("MAX_BOX_WEIGHT_KG", 15.0),
		},
		Events: EventWriterConfig{
			BufferSize:   getEnvInt("EVENT_BUFFER_SIZE", 1000),
			NumWorkers:   getEnvInt("EVENT_WORKERS", 4),
			WriteTimeout: getEnvDuration("EVENT_WRITE_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "assembly_service"),
			EventsTTL:                      getEnvDuration("MONGODB_EVENTS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

// ToleranceSettings converts the engine config into the model settings,
// falling back to the defaults for an unknown type.
func (c EngineConfig) ToleranceSettings() model.ToleranceSettings {
	settings := model.ToleranceSettings{
		Type:               model.ToleranceType(c.ToleranceType),
		PercentageValue:    c.TolerancePercentage,
		AbsoluteValueGrams: c.ToleranceGrams,
	}
	switch settings.Type {
	case model.TolerancePercentage, model.ToleranceAbsolute, model.ToleranceCombined:
		return settings
	default:
		return model.DefaultToleranceSettings()
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
