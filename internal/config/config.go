package config

import (
	"os"
	"strings"
	"time"

	"github.com/sajidalishaik45/coauthor-network/internal/force"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	HTTPAddr string
	// Dataset source: a CSV export, or a Postgres table when DatabaseURL is set
	DataCSV           string
	DatabaseURL       string
	PublicationsTable string
	SourceMaxAttempts int
	SourceRetryBase   time.Duration
	// Layout settings
	CanvasWidth     float64
	CanvasHeight    float64
	TickInterval    time.Duration
	LayoutSeed      int64
	AlphaDecay      float64 // 0 selects the engine default
	VelocityDecay   float64
	ForceParamsFile string
	Force           force.Params
	// API cache
	CacheMaxSizeMB  int64
	CacheMaxEntries int64
	CacheTTL        time.Duration
	// Security settings
	RateLimitGlobal      float64  // requests per second globally
	RateLimitGlobalBurst int      // burst size for global rate limit
	RateLimitPerIP       float64  // requests per second per IP
	RateLimitPerIPBurst  int      // burst size for per-IP rate limit
	EnableRateLimit      bool     // enable rate limiting middleware
	CORSAllowedOrigins   []string // allowed CORS origins
	// Observability settings
	LogLevel          string // log level: debug, info, warn, error
	LogFormat         string // json or text
	MetricsInterval   time.Duration
	OTELEnabled       bool
	OTELEndpoint      string
	OTELSampleRate    float64
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}
	cached = &Config{
		HTTPAddr:          getEnvString("HTTP_ADDR", ":8000"),
		DataCSV:           getEnvString("DATA_CSV", "data/publications.csv"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		PublicationsTable: getEnvString("PUBLICATIONS_TABLE", "publications"),
		SourceMaxAttempts: GetEnvAsInt("SOURCE_MAX_ATTEMPTS", 5),
		SourceRetryBase:   GetEnvAsMillis("SOURCE_RETRY_BASE_MS", time.Second),
		CanvasWidth:       GetEnvAsFloat("CANVAS_WIDTH", 960),
		CanvasHeight:      GetEnvAsFloat("CANVAS_HEIGHT", 600),
		TickInterval:      GetEnvAsMillis("LAYOUT_TICK_MS", force.DefaultTickInterval),
		LayoutSeed:        int64(GetEnvAsInt("LAYOUT_SEED", 1)),
		AlphaDecay:        GetEnvAsFloat("LAYOUT_ALPHA_DECAY", 0),
		VelocityDecay:     GetEnvAsFloat("LAYOUT_VELOCITY_DECAY", force.DefaultVelocityDecay),
		ForceParamsFile:   strings.TrimSpace(os.Getenv("FORCE_PARAMS_FILE")),
		Force: force.Params{
			ChargeStrength: GetEnvAsFloat("CHARGE_STRENGTH", force.DefaultChargeStrength),
			LinkStrength:   GetEnvAsFloat("LINK_STRENGTH", force.DefaultLinkStrength),
			LinkDistance:   GetEnvAsFloat("LINK_DISTANCE", force.DefaultLinkDistance),
			CollideRadius:  GetEnvAsFloat("COLLIDE_RADIUS", force.DefaultCollideRadius),
		},
		CacheMaxSizeMB:  int64(GetEnvAsInt("CACHE_MAX_SIZE_MB", 64)),
		CacheMaxEntries: int64(GetEnvAsInt("CACHE_MAX_ENTRIES", 1000)),
		CacheTTL:        GetEnvAsMillis("CACHE_TTL_MS", 5*time.Minute),
		// Security settings with sensible defaults
		RateLimitGlobal:      GetEnvAsFloat("RATE_LIMIT_GLOBAL", 200.0),
		RateLimitGlobalBurst: GetEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 400),
		RateLimitPerIP:       GetEnvAsFloat("RATE_LIMIT_PER_IP", 60.0),
		RateLimitPerIPBurst:  GetEnvAsInt("RATE_LIMIT_PER_IP_BURST", 120),
		EnableRateLimit:      GetEnvAsBool("ENABLE_RATE_LIMIT", true),
		// Default to common development origins
		CORSAllowedOrigins: GetEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}, ","),
		// Observability settings
		LogLevel:          getEnvString("LOG_LEVEL", "info"),
		LogFormat:         strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
		MetricsInterval:   GetEnvAsMillis("METRICS_INTERVAL_MS", 15*time.Second),
		OTELEnabled:       GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:      getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELSampleRate:    GetEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
		SentryDSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		SentryEnvironment: strings.TrimSpace(os.Getenv("SENTRY_ENVIRONMENT")),
		SentryRelease:     strings.TrimSpace(os.Getenv("SENTRY_RELEASE")),
		SentrySampleRate:  GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
	}
	if cached.SentryEnvironment == "" {
		if env := os.Getenv("ENV"); env != "" {
			cached.SentryEnvironment = env
		} else {
			cached.SentryEnvironment = "development"
		}
	}
	return cached
}

// ResetForTest clears cached config; for use in tests only.
func ResetForTest() { cached = nil }

// SimulationOptions translates the layout settings into engine options.
func (c *Config) SimulationOptions() []force.Option {
	opts := []force.Option{
		force.WithCanvas(c.CanvasWidth, c.CanvasHeight),
		force.WithSeed(c.LayoutSeed),
	}
	if c.AlphaDecay > 0 && c.AlphaDecay < 1 {
		opts = append(opts, force.WithAlphaDecay(c.AlphaDecay))
	}
	if c.VelocityDecay > 0 && c.VelocityDecay <= 1 {
		opts = append(opts, force.WithVelocityDecay(c.VelocityDecay))
	}
	return opts
}
