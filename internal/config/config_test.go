package config

import (
	"strings"
	"testing"
	"time"
)

const testHexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// TestFromEnv_Defaults tests that an empty environment yields development defaults.
func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != defaultAddr {
		t.Errorf("Addr=%q, want %q", cfg.Addr, defaultAddr)
	}
	if cfg.BackendURL != defaultBackendURL {
		t.Errorf("BackendURL=%q, want %q", cfg.BackendURL, defaultBackendURL)
	}
	if cfg.BookingFee != 15 {
		t.Errorf("BookingFee=%d, want 15", cfg.BookingFee)
	}
	if len(cfg.CSRFKey) != 32 || len(cfg.AdminClaimKey) != 32 {
		t.Error("expected random 32-byte keys in development")
	}
	if cfg.SecureCookies {
		t.Error("secure cookies must default off outside production")
	}
	if cfg.MetricsToken != "" {
		t.Error("metrics must be disabled unless a token is configured")
	}
}

// TestFromEnv_Overrides tests reading explicit values.
func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(envBackendURL, "http://backend:9000")
	t.Setenv(envBackendTimeout, "3s")
	t.Setenv(envBookingFee, "20")
	t.Setenv(envCSRFKey, testHexKey)
	t.Setenv(envNotifyEnabled, "no")
	t.Setenv(envMetricsToken, "scrape-secret")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackendURL != "http://backend:9000" {
		t.Errorf("BackendURL=%q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("BackendTimeout=%v, want 3s", cfg.BackendTimeout)
	}
	if cfg.BookingFee != 20 {
		t.Errorf("BookingFee=%d, want 20", cfg.BookingFee)
	}
	if cfg.CSRFKey[1] != 0x01 {
		t.Error("expected CSRF key decoded from hex")
	}
	if cfg.NotifyEnabled {
		t.Error("expected notifications disabled")
	}
	if cfg.MetricsToken != "scrape-secret" {
		t.Errorf("MetricsToken=%q", cfg.MetricsToken)
	}
}

// TestFromEnv_InvalidValuesFallBack tests that malformed numbers keep the default.
func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv(envBackendTimeout, "soon")
	t.Setenv(envRateLimit, "-3")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackendTimeout != defaultBackendTimeout {
		t.Errorf("BackendTimeout=%v, want default", cfg.BackendTimeout)
	}
	if cfg.RateLimit != defaultRateLimit {
		t.Errorf("RateLimit=%d, want default", cfg.RateLimit)
	}
}

// TestFromEnv_ProductionRequiresSecrets tests that all missing secrets are reported together.
func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv(envEnv, "production")

	_, err := fromEnv()
	if err == nil {
		t.Fatal("expected error in production without secrets")
	}
	for _, key := range []string{envCSRFKey, envAdminClaimKey, envCognitoClientID} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err.Error(), key)
		}
	}
}

// TestFromEnv_BadHexKey tests rejection of a malformed key.
func TestFromEnv_BadHexKey(t *testing.T) {
	t.Setenv(envCSRFKey, "abc")
	if _, err := fromEnv(); err == nil {
		t.Fatal("expected error for short CSRF key")
	}
}

// TestFromEnv_TrustedOrigins tests comma-separated origins and thresholds.
func TestFromEnv_TrustedOrigins(t *testing.T) {
	t.Setenv(envTrustedOrigins, " courtlink.app , ,www.courtlink.app")
	t.Setenv(envSlowRequestMs, "500")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(cfg.TrustedOrigins, "|") != "courtlink.app|www.courtlink.app" {
		t.Errorf("TrustedOrigins=%v", cfg.TrustedOrigins)
	}
	if cfg.SlowRequestMs != 500 || cfg.SlowQueryMs != defaultSlowQueryMs {
		t.Errorf("thresholds=%d/%d", cfg.SlowRequestMs, cfg.SlowQueryMs)
	}
}
