package handler

import (
	"errors"
	"net/http"
	"time"

	accountdomain "giapha-go/internal/domain/account"
)

type createAccountRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	MemberID    *string `json:"member_id"`
}

type updateAccountRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	MemberID    *string `json:"member_id"`
	Active      *bool   `json:"active"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type accountResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	MemberID    *string    `json:"member_id"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		h.log.InternalError("accounts.list: list accounts failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, toAccountResponse(account))
	}
	writeData(w, http.StatusOK, response)
}

func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "account_not_found", "account not found")
		return
	}

	account, err := h.Accounts.Get(r.Context(), id)
	if err != nil {
		h.accountError(w, "accounts.get", err, "account_id", id)
		return
	}

	writeData(w, http.StatusOK, toAccountResponse(*account))
}

func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if !validID(req.MemberID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid member_id")
		return
	}

	account, err := h.Accounts.Create(r.Context(), accountdomain.CreateInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        accountdomain.Role(req.Role),
		MemberID:    optionalIDValue(req.MemberID),
	})
	if err != nil {
		h.accountError(w, "accounts.create", err, "username", req.Username)
		return
	}

	writeData(w, http.StatusCreated, toAccountResponse(*account))
}

func (h *Handlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "account_not_found", "account not found")
		return
	}

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if !validID(req.MemberID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid member_id")
		return
	}

	input := accountdomain.UpdateInput{
		DisplayName: req.DisplayName,
		MemberID:    req.MemberID,
		Active:      req.Active,
	}
	if req.Role != nil {
		role := accountdomain.Role(*req.Role)
		input.Role = &role
	}

	account, err := h.Accounts.Update(r.Context(), id, input)
	if err != nil {
		h.accountError(w, "accounts.update", err, "account_id", id)
		return
	}

	writeData(w, http.StatusOK, toAccountResponse(*account))
}

func (h *Handlers) ResetAccountPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "account_not_found", "account not found")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Accounts.ResetPassword(r.Context(), id, req.Password); err != nil {
		h.accountError(w, "accounts.reset_password", err, "account_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) accountError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, accountdomain.ErrAccountNotFound):
		h.log.BusinessError(op+": account not found", err, args...)
		writeError(w, http.StatusNotFound, "account_not_found", "account not found")
	case errors.Is(err, accountdomain.ErrUsernameTaken):
		h.log.BusinessError(op+": username taken", err, args...)
		writeError(w, http.StatusConflict, "username_taken", "username already taken")
	case errors.Is(err, accountdomain.ErrLastAdmin):
		h.log.BusinessError(op+": last admin", err, args...)
		writeError(w, http.StatusConflict, "last_admin", "cannot remove the last active admin")
	case errors.Is(err, accountdomain.ErrPasswordMismatch):
		h.log.BusinessError(op+": password mismatch", err, args...)
		writeError(w, http.StatusBadRequest, "password_mismatch", "current password is incorrect")
	case errors.Is(err, accountdomain.ErrWeakPassword), errors.Is(err, accountdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toAccountResponse(account accountdomain.Account) accountResponse {
	return accountResponse{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Role:        string(account.Role),
		MemberID:    account.MemberID,
		Active:      account.Active,
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
	}
}
