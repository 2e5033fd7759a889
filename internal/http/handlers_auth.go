package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/domain/model"
	"github.com/oakgrove/campus-portal/internal/ports"
	"github.com/oakgrove/campus-portal/internal/service"
)

// Cookie names are fixed; the browser UI reads the theme cookie directly.
const (
	SessionCookieName = "portal_session"
	ThemeCookieName   = "portal_theme"
)

const themeCookieMaxAge = 31 * 24 * 60 * 60

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	CompleteTicketLogin(ctx context.Context, in service.TicketLoginInput) (*service.TicketLoginResult, error)
	OpenSession(ctx context.Context, token string) (domainauth.SessionClaims, error)
}

// AuthHandlers provides HTTP handlers for the ticket login flow and
// session endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Users        ports.UserStore
	History      ports.LoginHistory
	CookieDomain string
	DefaultTheme string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Callback handles the identity provider's redirect back to us.
// GET /casauth?ticket=<opaque>&authtype=<mechanism-id>.
//
// Every branch ends in a redirect to "/". The browser never sees an error
// page from this endpoint; failures surface only as an absent session
// cookie plus server-side logs and metrics.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	authtype := r.URL.Query().Get("authtype")
	if ticket == "" || authtype == "" {
		// No-op redirect: nothing was validated, nothing is written.
		loginAttempts.WithLabelValues(outcomeNoTicket).Inc()
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	result, err := h.Svc.CompleteTicketLogin(r.Context(), service.TicketLoginInput{
		Ticket:      ticket,
		MechanismID: authtype,
	})
	if err != nil {
		if !errors.Is(err, service.ErrNotAuthenticated) {
			h.logger().ErrorContext(r.Context(), "ticket login failed",
				"mechanism", authtype, "error", err)
		}
		loginAttempts.WithLabelValues(outcomeValidationFailed).Inc()
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// The theme cookie does not gate on session success.
	h.setThemeCookie(w, r, result.User)

	if result.SealFailed {
		loginAttempts.WithLabelValues(outcomeSealFailed).Inc()
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.setSessionCookie(w, r, result.Token)
	loginAttempts.WithLabelValues(outcomeSuccess).Inc()
	http.Redirect(w, r, "/", http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionFromRequest(r, h.Svc)
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	payload := map[string]any{
		"authenticated": true,
		"subject":       string(claims.Subject),
		"issued_at":     claims.IssuedAt,
	}
	if username, affiliation, err := claims.Subject.Split(); err == nil {
		if user, lookupErr := h.Users.GetByKey(r.Context(), username, affiliation); lookupErr == nil {
			payload["user"] = user
		}
	}
	WriteJSON(w, http.StatusOK, payload)
}

// Logout clears the session cookie. There is no server-side state to
// invalidate; dropping the cookie ends the session.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, SessionCookieName)

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logins lists recent login audit entries for the authenticated subject.
// GET /auth/logins?limit=<n>. Requires the session middleware.
func (h *AuthHandlers) Logins(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	username, affiliation, err := claims.Subject.Split()
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	entries, err := h.History.ListRecent(r.Context(), username, affiliation, limit)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_history_failed",
			Err:     errors.New("could not load login history"),
		})
		h.logger().ErrorContext(r.Context(), "list login history failed",
			"subject", string(claims.Subject), "error", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"logins": entries})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session cookie. No MaxAge: the cookie lives
// for the browser session, and the payload itself carries the issue time.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// setThemeCookie writes the UI skin preference. Not HttpOnly: the
// front end reads it before any authenticated request.
func (h *AuthHandlers) setThemeCookie(w http.ResponseWriter, r *http.Request, user *model.User) {
	theme := h.DefaultTheme
	if v, ok := user.Theme(); ok {
		theme = v
	}
	if theme == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookieName,
		Value:    theme,
		Path:     "/",
		Domain:   h.CookieDomain,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   themeCookieMaxAge,
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It
// mirrors the attributes used when setting cookies so browsers match the
// deletion to the original.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
