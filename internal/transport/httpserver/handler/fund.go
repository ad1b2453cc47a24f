package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	funddomain "giapha-go/internal/domain/fund"
	"giapha-go/internal/export"
	"giapha-go/internal/transport/httpserver/middleware"
)

type fundEntryRequest struct {
	Kind          string  `json:"kind"`
	Amount        int64   `json:"amount"`
	OccurredOn    string  `json:"occurred_on"`
	Description   string  `json:"description"`
	ContributorID *string `json:"contributor_id"`
}

type fundEntryResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Amount        int64     `json:"amount"`
	OccurredOn    string    `json:"occurred_on"`
	Description   string    `json:"description"`
	ContributorID *string   `json:"contributor_id"`
	RecordedBy    *string   `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type fundSummaryResponse struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

func (h *Handlers) ListFundEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	entries, total, err := h.Fund.List(r.Context(), funddomain.ListFilter{
		From:   from,
		To:     to,
		Kind:   funddomain.Kind(strings.TrimSpace(query.Get("kind"))),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.fundError(w, "fund.list", err)
		return
	}

	response := make([]fundEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toFundEntryResponse(entry))
	}
	writeData(w, http.StatusOK, listResponse{Items: response, Total: total})
}

func (h *Handlers) GetFundEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "entry_not_found", "fund entry not found")
		return
	}

	entry, err := h.Fund.Get(r.Context(), id)
	if err != nil {
		h.fundError(w, "fund.get", err, "entry_id", id)
		return
	}

	writeData(w, http.StatusOK, toFundEntryResponse(*entry))
}

func (h *Handlers) FundSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}

	summary, err := h.Fund.Summary(r.Context(), from, to)
	if err != nil {
		h.fundError(w, "fund.summary", err)
		return
	}

	writeData(w, http.StatusOK, fundSummaryResponse{
		Income:  summary.Income,
		Expense: summary.Expense,
		Balance: summary.Balance,
	})
}

func (h *Handlers) CreateFundEntry(w http.ResponseWriter, r *http.Request) {
	var req fundEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	input, ok := toFundInput(w, req)
	if !ok {
		return
	}
	input.RecordedBy = principal.AccountID

	entry, err := h.Fund.Create(r.Context(), input)
	if err != nil {
		h.fundError(w, "fund.create", err, "account_id", principal.AccountID)
		return
	}

	writeData(w, http.StatusCreated, toFundEntryResponse(*entry))
}

func (h *Handlers) UpdateFundEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "entry_not_found", "fund entry not found")
		return
	}

	var req fundEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := toFundInput(w, req)
	if !ok {
		return
	}

	entry, err := h.Fund.Update(r.Context(), id, input)
	if err != nil {
		h.fundError(w, "fund.update", err, "entry_id", id)
		return
	}

	writeData(w, http.StatusOK, toFundEntryResponse(*entry))
}

func (h *Handlers) DeleteFundEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "entry_not_found", "fund entry not found")
		return
	}

	if err := h.Fund.Delete(r.Context(), id); err != nil {
		h.fundError(w, "fund.delete", err, "entry_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ExportFund(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}

	entries, err := h.Fund.Entries(r.Context(), from, to)
	if err != nil {
		h.fundError(w, "fund.export", err)
		return
	}
	summary, err := h.Fund.Summary(r.Context(), from, to)
	if err != nil {
		h.fundError(w, "fund.export", err)
		return
	}
	members, err := h.Members.ListAll(r.Context())
	if err != nil {
		h.log.InternalError("fund.export: list members failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	contributors := make(map[string]string, len(members))
	for _, member := range members {
		contributors[member.ID] = member.FullName
	}

	body, err := export.Fund(entries, summary, contributors)
	if err != nil {
		h.log.InternalError("fund.export: render workbook failed", err, "count", len(entries))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeFile(w, export.ContentType, "fund-"+time.Now().Format("20060102")+".xlsx", body)
}

func (h *Handlers) fundError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, funddomain.ErrEntryNotFound):
		h.log.BusinessError(op+": entry not found", err, args...)
		writeError(w, http.StatusNotFound, "entry_not_found", "fund entry not found")
	case errors.Is(err, funddomain.ErrContributorNotFound):
		h.log.BusinessError(op+": contributor not found", err, args...)
		writeError(w, http.StatusBadRequest, "contributor_not_found", "contributor not found")
	case errors.Is(err, funddomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func parseRange(w http.ResponseWriter, fromValue, toValue string) (*time.Time, *time.Time, bool) {
	from, err := parseDateParam(fromValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return nil, nil, false
	}
	to, err := parseDateParam(toValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return nil, nil, false
	}
	return from, to, true
}

func toFundInput(w http.ResponseWriter, req fundEntryRequest) (funddomain.Input, bool) {
	occurredOn, err := parseDateRequired(req.OccurredOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid occurred_on")
		return funddomain.Input{}, false
	}
	if !validID(req.ContributorID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid contributor_id")
		return funddomain.Input{}, false
	}
	return funddomain.Input{
		Kind:          funddomain.Kind(req.Kind),
		Amount:        req.Amount,
		OccurredOn:    occurredOn,
		Description:   req.Description,
		ContributorID: req.ContributorID,
	}, true
}

func toFundEntryResponse(entry funddomain.Entry) fundEntryResponse {
	return fundEntryResponse{
		ID:            entry.ID,
		Kind:          string(entry.Kind),
		Amount:        entry.Amount,
		OccurredOn:    entry.OccurredOn.Format(dateLayout),
		Description:   entry.Description,
		ContributorID: entry.ContributorID,
		RecordedBy:    entry.RecordedBy,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}
