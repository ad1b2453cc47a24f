package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	accountdomain "giapha-go/internal/domain/account"
	"giapha-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   accountResponse `json:"account"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	result, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var locked *accountdomain.LockedError
		switch {
		case errors.As(err, &locked):
			h.log.BusinessError("auth.login: account locked", err, "username", req.Username)
			seconds := int(math.Ceil(locked.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeError(w, http.StatusTooManyRequests, "account_locked", "too many failed attempts, try again later")
		case errors.Is(err, accountdomain.ErrInvalidCredentials):
			h.log.BusinessError("auth.login: invalid credentials", err, "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		case errors.Is(err, accountdomain.ErrAccountInactive):
			h.log.BusinessError("auth.login: account inactive", err, "username", req.Username)
			writeError(w, http.StatusForbidden, "account_inactive", "account is deactivated")
		default:
			h.log.InternalError("auth.login: login failed", err, "username", req.Username)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeData(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Account:   toAccountResponse(result.Account),
	})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	account, err := h.Accounts.Get(r.Context(), principal.AccountID)
	if err != nil {
		h.accountError(w, "auth.me", err, "account_id", principal.AccountID)
		return
	}

	writeData(w, http.StatusOK, toAccountResponse(*account))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Accounts.ChangePassword(r.Context(), principal.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		h.accountError(w, "auth.change_password", err, "account_id", principal.AccountID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
