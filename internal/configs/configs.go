package configs

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"

	"booking-flow/internal/pricing"
)

type Config struct {
	KafkaBrokers     string        `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaTopic       string        `env:"KAFKA_TOPIC" envDefault:"booking-requests"`
	KafkaEventsTopic string        `env:"KAFKA_EVENTS_TOPIC" envDefault:"booking-confirmations"`
	KafkaDLQ         string        `env:"KAFKA_DLQ" envDefault:"booking-requests-dlq"`
	KafkaGroupID     string        `env:"KAFKA_GROUP_ID" envDefault:"booking-svc"`
	KafkaMaxRetries  int           `env:"KAFKA_MAX_RETRIES" envDefault:"5"`
	KafkaBaseBackoff time.Duration `env:"KAFKA_BASE_BACKOFF" envDefault:"200ms"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`

	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	SubmitTimeout  time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"10s"`
	CacheWarmLimit int           `env:"CACHE_WARM_LIMIT" envDefault:"1000"`
	ProgressMin    int           `env:"PROGRESS_MIN" envDefault:"25"`
	ProgressMax    int           `env:"PROGRESS_MAX" envDefault:"100"`

	AuthMaxAttempts int           `env:"AUTH_MAX_ATTEMPTS" envDefault:"5"`
	AuthWindow      time.Duration `env:"AUTH_WINDOW" envDefault:"15m"`

	PackageFreeWeight    int   `env:"PACKAGE_FREE_WEIGHT" envDefault:"5"`
	PackagePerUnitRate   int64 `env:"PACKAGE_PER_UNIT_RATE" envDefault:"200"`
	TextilePricePerMeter int64 `env:"TEXTILE_PRICE_PER_METER" envDefault:"0"`
	CheckoutShippingFee  int64 `env:"CHECKOUT_SHIPPING_FEE" envDefault:"3000"`
	CheckoutTaxBP        int64 `env:"CHECKOUT_TAX_BASIS_POINTS" envDefault:"500"`

	JsonStaticModelPath string `env:"JSON_STATIC_MODEL_PATH" envDefault:"web/package_request.json"`

	DatabaseURL     string `env:"DATABASE_URL" envDefault:""`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"bookings"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	if c.ProgressMin < 0 || c.ProgressMax <= c.ProgressMin {
		return Config{}, fmt.Errorf("config: progress range %d-%d is invalid", c.ProgressMin, c.ProgressMax)
	}
	return c, nil
}

func (c Config) KafkaBrokersSlice() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPass),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: url.Values{"sslmode": {c.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}

// Rates applies the configured overrides on top of the default rate tables.
// A zero per-meter price keeps each fabric's own price.
func (c Config) Rates() pricing.Rates {
	r := pricing.DefaultRates()
	r.Package.FreeThreshold = c.PackageFreeWeight
	r.Package.PerUnit = c.PackagePerUnitRate
	if c.TextilePricePerMeter > 0 {
		for fabric := range r.Textile.Base {
			r.Textile.Base[fabric] = c.TextilePricePerMeter
		}
	}
	r.Checkout.ShippingFee = c.CheckoutShippingFee
	r.Checkout.TaxBasisPoints = c.CheckoutTaxBP
	return r
}
