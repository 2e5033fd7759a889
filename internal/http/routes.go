package httpx

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakgrove/campus-portal/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Users        ports.UserStore
	History      ports.LoginHistory
	CookieDomain string
	DefaultTheme string
	// CallbackLimiter gates /casauth per client IP. Optional; nil disables
	// rate limiting.
	CallbackLimiter RateLimiter
	MetricsEnabled  bool
	Logger          *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Users:        services.Users,
		History:      services.History,
		CookieDomain: services.CookieDomain,
		DefaultTheme: services.DefaultTheme,
		Logger:       services.Logger,
	}

	callback := http.Handler(http.HandlerFunc(authHandlers.Callback))
	if services.CallbackLimiter != nil {
		callback = RateLimit(services.CallbackLimiter, services.Logger)(callback)
	}
	mux.Handle("GET /casauth", callback)

	mux.HandleFunc("GET /auth/status", authHandlers.Status)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.Handle("GET /auth/logins",
		RequireAuth(services.Auth)(http.HandlerFunc(authHandlers.Logins)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
