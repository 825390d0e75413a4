package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAddr            = "COURTLINK_ADDR"
	envEnv             = "COURTLINK_ENV"
	envBackendURL      = "COURTLINK_BACKEND_URL"
	envBackendTimeout  = "COURTLINK_BACKEND_TIMEOUT"
	envDBPath          = "COURTLINK_DB_PATH"
	envCSRFKey         = "COURTLINK_CSRF_KEY"
	envAdminClaimKey   = "COURTLINK_ADMIN_CLAIM_KEY"
	envAdminClaimTTL   = "COURTLINK_ADMIN_CLAIM_TTL"
	envSessionTTL      = "COURTLINK_SESSION_TTL"
	envCognitoRegion   = "COURTLINK_COGNITO_REGION"
	envCognitoClientID = "COURTLINK_COGNITO_CLIENT_ID"
	envCognitoSecret   = "COURTLINK_COGNITO_CLIENT_SECRET"
	envResendKey       = "COURTLINK_RESEND_KEY"
	envEmailFrom       = "COURTLINK_EMAIL_FROM"
	envEmailReplyTo    = "COURTLINK_EMAIL_REPLY_TO"
	envNotifyEnabled   = "COURTLINK_NOTIFY_ENABLED"
	envBookingFee      = "COURTLINK_BOOKING_FEE"
	envRateLimit       = "COURTLINK_RATE_LIMIT"
	envSecureCookies   = "COURTLINK_SECURE_COOKIES"
	envTrustedOrigins  = "COURTLINK_TRUSTED_ORIGINS"
	envSlowRequestMs   = "COURTLINK_SLOW_REQUEST_MS"
	envSlowQueryMs     = "COURTLINK_SLOW_QUERY_MS"
	envMetricsToken    = "COURTLINK_METRICS_TOKEN"

	defaultAddr           = ":3000"
	defaultEnv            = "development"
	defaultBackendURL     = "http://localhost:8080"
	defaultBackendTimeout = 10 * time.Second
	defaultDBPath         = "courtlink.db"
	defaultAdminClaimTTL  = 8 * time.Hour
	defaultSessionTTL     = 24 * time.Hour
	defaultCognitoRegion  = "us-east-1"
	defaultEmailFrom      = "CourtLink <noreply@courtlink.app>"
	defaultBookingFee     = 15
	defaultRateLimit      = 10
	defaultSlowRequestMs  = 200
	defaultSlowQueryMs    = 50

	envProduction = "production"
)

// Config is the runtime configuration of the server.
type Config struct {
	Addr           string
	Env            string
	BackendURL     string
	BackendTimeout time.Duration
	DBPath         string
	CSRFKey        []byte
	AdminClaimKey  []byte
	AdminClaimTTL  time.Duration
	SessionTTL     time.Duration
	SecureCookies  bool

	CognitoRegion       string
	CognitoClientID     string
	CognitoClientSecret string

	ResendKey     string
	EmailFrom     string
	EmailReplyTo  string
	NotifyEnabled bool

	BookingFee     int
	RateLimit      int
	TrustedOrigins []string
	SlowRequestMs  int
	SlowQueryMs    int

	// MetricsToken is the bearer token a scraper must present at /metrics.
	// Empty disables the endpoint.
	MetricsToken string
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == envProduction
}

// Load reads an optional .env file and then the process environment.
// PRE: none
// POST: returns a Config with defaults applied; secrets missing in production are reported together
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("config_event", "event", "dotenv_loaded")
	}
	return fromEnv()
}

func fromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOrDefault(envAddr, defaultAddr),
		Env:                 envOrDefault(envEnv, defaultEnv),
		BackendURL:          envOrDefault(envBackendURL, defaultBackendURL),
		BackendTimeout:      durationEnvOrDefault(envBackendTimeout, defaultBackendTimeout),
		DBPath:              envOrDefault(envDBPath, defaultDBPath),
		AdminClaimTTL:       durationEnvOrDefault(envAdminClaimTTL, defaultAdminClaimTTL),
		SessionTTL:          durationEnvOrDefault(envSessionTTL, defaultSessionTTL),
		CognitoRegion:       envOrDefault(envCognitoRegion, defaultCognitoRegion),
		CognitoClientID:     envOrDefault(envCognitoClientID, ""),
		CognitoClientSecret: envOrDefault(envCognitoSecret, ""),
		ResendKey:           envOrDefault(envResendKey, ""),
		EmailFrom:           envOrDefault(envEmailFrom, defaultEmailFrom),
		EmailReplyTo:        envOrDefault(envEmailReplyTo, ""),
		BookingFee:          intEnvOrDefault(envBookingFee, defaultBookingFee),
		RateLimit:           intEnvOrDefault(envRateLimit, defaultRateLimit),
		TrustedOrigins:      listEnvOrDefault(envTrustedOrigins, []string{"localhost:3000", "127.0.0.1:3000"}),
		SlowRequestMs:       intEnvOrDefault(envSlowRequestMs, defaultSlowRequestMs),
		SlowQueryMs:         intEnvOrDefault(envSlowQueryMs, defaultSlowQueryMs),
		MetricsToken:        envOrDefault(envMetricsToken, ""),
	}
	cfg.SecureCookies = boolEnvOrDefault(envSecureCookies, cfg.IsProduction())
	cfg.NotifyEnabled = boolEnvOrDefault(envNotifyEnabled, true)

	var errs []error
	csrfKey, csrfErr := hexKeyFromEnv(envCSRFKey)
	if csrfErr != nil {
		errs = append(errs, csrfErr)
	}
	claimKey, claimErr := hexKeyFromEnv(envAdminClaimKey)
	if claimErr != nil {
		errs = append(errs, claimErr)
	}

	if cfg.IsProduction() {
		if csrfKey == nil && csrfErr == nil {
			errs = append(errs, fmt.Errorf("%s is required in production", envCSRFKey))
		}
		if claimKey == nil && claimErr == nil {
			errs = append(errs, fmt.Errorf("%s is required in production", envAdminClaimKey))
		}
		if cfg.CognitoClientID == "" {
			errs = append(errs, fmt.Errorf("%s is required in production", envCognitoClientID))
		}
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if csrfKey == nil {
		csrfKey = randomKey()
		slog.Warn("config_event", "event", "random_csrf_key", "hint", "set "+envCSRFKey+" so sessions survive restart")
	}
	if claimKey == nil {
		claimKey = randomKey()
		slog.Warn("config_event", "event", "random_admin_claim_key", "hint", "set "+envAdminClaimKey+" so admin sessions survive restart")
	}
	cfg.CSRFKey = csrfKey
	cfg.AdminClaimKey = claimKey
	return cfg, nil
}

func randomKey() []byte {
	key := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(key)
	return key
}
