package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/net/publicsuffix"

	"github.com/oakgrove/campus-portal/config"
	"github.com/oakgrove/campus-portal/internal/adapters/redisrate"
	httpx "github.com/oakgrove/campus-portal/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config *config.AppConfig
	Auth   *AuthComponents
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:            cfg.Auth.Service,
		Users:           cfg.Auth.Users,
		History:         cfg.Auth.LoginLog,
		CookieDomain:    sanitizeCookieDomain(appCfg.HTTP.CookieDomain, logger),
		DefaultTheme:    appCfg.Auth.DefaultTheme,
		CallbackLimiter: buildCallbackLimiter(appCfg.Observability, cfg.Redis),
		MetricsEnabled:  appCfg.Observability.MetricsEnabled,
		Logger:          logger,
	}

	router := httpx.NewRouter(services)
	handler := httpx.Recover(logger)(httpx.Logging(logger)(router))

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

// buildCallbackLimiter prefers the Redis-backed limiter so the budget is
// shared across replicas, falling back to an in-process one.
func buildCallbackLimiter(obs config.ObservabilityConfig, client redis.UniversalClient) httpx.RateLimiter {
	window := time.Duration(obs.CallbackRateWindow) * time.Second
	if client != nil {
		return redisrate.New(client, redisrate.Config{
			Prefix: "casauth:",
			Limit:  obs.CallbackRateLimit,
			Window: window,
		})
	}
	return httpx.NewLocalLimiter(obs.CallbackRateLimit, window)
}

// sanitizeCookieDomain refuses a cookie domain that is a bare public suffix
// (for example "com" or "co.uk"); browsers would reject such cookies anyway,
// and a typo here silently breaks every login.
func sanitizeCookieDomain(domain string, logger *slog.Logger) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(domain), ".")
	if trimmed == "" {
		return ""
	}
	if suffix, _ := publicsuffix.PublicSuffix(trimmed); suffix == trimmed {
		if logger != nil {
			logger.Warn("cookie domain is a public suffix, ignoring", "domain", domain)
		}
		return ""
	}
	return domain
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
