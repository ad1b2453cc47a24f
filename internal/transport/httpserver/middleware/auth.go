package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"giapha-go/internal/domain/account"
	"giapha-go/pkg/logger"
)

// Authenticator resolves a bearer token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (account.Principal, error)
}

type Auth struct {
	accounts Authenticator
	log      logger.Logger
}

type contextKey int

const principalKey contextKey = iota

func NewAuth(accounts Authenticator, log logger.Logger) *Auth {
	return &Auth{accounts: accounts, log: log}
}

// Middleware rejects requests without a valid token.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// Optional attaches the principal when a valid token is sent and lets
// anonymous requests through. A malformed or expired token is still rejected.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (a *Auth) authenticate(w http.ResponseWriter, r *http.Request) (account.Principal, bool) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		unauthorized(w)
		return account.Principal{}, false
	}

	principal, err := a.accounts.Authenticate(r.Context(), token)
	if err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			a.log.BusinessError("auth: token rejected", err, "path", r.URL.Path)
			unauthorized(w)
			return account.Principal{}, false
		}
		a.log.InternalError("auth: authenticate failed", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return account.Principal{}, false
	}
	return principal, true
}

// RequireRole must run after Middleware.
func RequireRole(role account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !principal.Role.Allows(role) {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithPrincipal(ctx context.Context, principal account.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (account.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(account.Principal)
	if !ok || principal.AccountID == "" {
		return account.Principal{}, false
	}
	return principal, true
}

// HasRole reports whether the request carries a principal with at least role.
func HasRole(ctx context.Context, role account.Role) bool {
	principal, ok := PrincipalFromContext(ctx)
	return ok && principal.Role.Allows(role)
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}
