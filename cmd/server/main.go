package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"courtlink/internal/adapters/backend"
	"courtlink/internal/adapters/email"
	web "courtlink/internal/adapters/http"
	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/adapters/http/perf"
	"courtlink/internal/adapters/identity"
	"courtlink/internal/adapters/metrics"
	"courtlink/internal/adapters/storage"
	"courtlink/internal/adapters/storage/profilecache"
	sessionStore "courtlink/internal/adapters/storage/session"
	"courtlink/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// sessionSweepInterval is how often expired browser sessions are purged.
const sessionSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if !cfg.IsProduction() {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := storage.InitDB(ctx, db); err != nil {
		log.Fatalf("failed to initialise database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	recorder := metrics.New()
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	sessions := sessionStore.NewSQLiteStore(timedDB)
	cache := profilecache.NewSQLiteStore(timedDB)

	client := backend.NewClient(backend.Config{
		BaseURL:  cfg.BackendURL,
		Timeout:  cfg.BackendTimeout,
		Observer: backend.Observers{collector, recorder},
	})

	cognito, err := identity.NewCognitoProvider(ctx, identity.CognitoConfig{
		Region:       cfg.CognitoRegion,
		ClientID:     cfg.CognitoClientID,
		ClientSecret: cfg.CognitoClientSecret,
	})
	if err != nil {
		log.Fatalf("failed to configure identity provider: %v", err)
	}

	claims, err := middleware.NewClaimSigner(cfg.AdminClaimKey, cfg.AdminClaimTTL)
	if err != nil {
		log.Fatalf("failed to configure admin claims: %v", err)
	}

	deps := web.Deps{
		Backend:      client,
		Identity:     identity.WithObserver(cognito, recorder),
		Sessions:     sessions,
		ProfileCache: cache,
		Claims:       claims,
		Collector:    collector,
		Metrics:      recorder.Handler(),
		Requests:     recorder,
		Options: web.Options{
			SessionTTL:     cfg.SessionTTL,
			BookingFee:     cfg.BookingFee,
			SecureCookies:  cfg.SecureCookies,
			CSRFKey:        cfg.CSRFKey,
			TrustedOrigins: cfg.TrustedOrigins,
			RateLimit:      cfg.RateLimit,
			SlowRequestMs:  cfg.SlowRequestMs,
			MetricsToken:   cfg.MetricsToken,
		},
	}

	if cfg.MetricsToken == "" {
		log.Println("Metrics endpoint disabled (set COURTLINK_METRICS_TOKEN to expose /metrics)")
	}

	// Configure email sender
	switch {
	case !cfg.NotifyEnabled:
		log.Println("Booking notifications disabled")
	case cfg.ResendKey != "":
		deps.Notifier = email.NewNotifier(email.NewResendSender(cfg.ResendKey, cfg.EmailFrom, cfg.EmailReplyTo))
		log.Println("Email sender configured (Resend)")
	default:
		deps.Notifier = email.NewNotifier(email.NewLogSender())
		if cfg.IsProduction() {
			log.Println("WARNING: COURTLINK_RESEND_KEY is not set, emails are only logged")
		} else {
			log.Println("Email sender configured (log only; set COURTLINK_RESEND_KEY for real delivery)")
		}
	}

	server, err := web.NewServer(deps)
	if err != nil {
		log.Fatalf("failed to build HTTP server: %v", err)
	}
	defer server.Close()

	go sweepSessions(ctx, sessions, cache)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown_failed", "error", err)
		}
	}()

	log.Printf("CourtLink %s starting on %s (env=%s, backend=%s)", version, cfg.Addr, cfg.Env, cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}

// sweepSessions deletes expired sessions and their cached profiles until ctx
// is cancelled.
func sweepSessions(ctx context.Context, sessions *sessionStore.SQLiteStore, cache *profilecache.SQLiteStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sweepOnce(ctx, sessions, cache, now)
		}
	}
}

// sweepOnce runs one sweep. Cache rows are purged even when the session sweep
// fails, since rows orphaned by logouts need no expiry check.
func sweepOnce(ctx context.Context, sessions *sessionStore.SQLiteStore, cache *profilecache.SQLiteStore, now time.Time) {
	n, err := sessions.DeleteExpired(ctx, now)
	if err != nil {
		slog.Warn("session_sweep_failed", "error", err)
	}
	orphaned, err := cache.DeleteOrphaned(ctx)
	if err != nil {
		slog.Warn("profile_cache_sweep_failed", "error", err)
	}
	if n > 0 || orphaned > 0 {
		slog.Info("session_sweep", "deleted", n, "cache_deleted", orphaned)
	}
}
