package handler

import (
	"errors"
	"net/http"
	"time"

	memberdomain "giapha-go/internal/domain/member"
	memorialdomain "giapha-go/internal/domain/memorial"
)

type incenseRequest struct {
	VisitorName string `json:"visitor_name"`
	Message     string `json:"message"`
}

type condolenceRequest struct {
	AuthorName string `json:"author_name"`
	Message    string `json:"message"`
}

type incenseLogResponse struct {
	ID          string    `json:"id"`
	VisitorName string    `json:"visitor_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type condolenceResponse struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type memorialResponse struct {
	Member        memberResponse       `json:"member"`
	IncenseCount  int64                `json:"incense_count"`
	RecentIncense []incenseLogResponse `json:"recent_incense"`
	Condolences   []condolenceResponse `json:"condolences"`
}

type incenseResponse struct {
	IncenseCount int64 `json:"incense_count"`
}

func (h *Handlers) GetMemorial(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "member_id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	page, err := h.Memorials.Page(r.Context(), memberID)
	if err != nil {
		h.memorialError(w, "memorials.get", err, "member_id", memberID)
		return
	}

	logs := make([]incenseLogResponse, 0, len(page.RecentIncense))
	for _, entry := range page.RecentIncense {
		logs = append(logs, incenseLogResponse{
			ID:          entry.ID,
			VisitorName: entry.VisitorName,
			Message:     entry.Message,
			CreatedAt:   entry.CreatedAt,
		})
	}
	condolences := make([]condolenceResponse, 0, len(page.Condolences))
	for _, condolence := range page.Condolences {
		condolences = append(condolences, toCondolenceResponse(condolence))
	}

	writeData(w, http.StatusOK, memorialResponse{
		Member:        toMemberResponse(page.Member),
		IncenseCount:  page.IncenseCount,
		RecentIncense: logs,
		Condolences:   condolences,
	})
}

func (h *Handlers) LightIncense(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "member_id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	var req incenseRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
	}

	total, err := h.Memorials.LightIncense(r.Context(), memberID, req.VisitorName, req.Message)
	if err != nil {
		h.memorialError(w, "memorials.incense", err, "member_id", memberID)
		return
	}

	writeData(w, http.StatusOK, incenseResponse{IncenseCount: total})
}

func (h *Handlers) AddCondolence(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "member_id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	var req condolenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	condolence, err := h.Memorials.AddCondolence(r.Context(), memberID, req.AuthorName, req.Message)
	if err != nil {
		h.memorialError(w, "memorials.condolence", err, "member_id", memberID)
		return
	}

	writeData(w, http.StatusCreated, toCondolenceResponse(*condolence))
}

func (h *Handlers) HideCondolence(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "condolence_not_found", "condolence not found")
		return
	}

	if err := h.Memorials.HideCondolence(r.Context(), id); err != nil {
		h.memorialError(w, "memorials.hide_condolence", err, "condolence_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) memorialError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, memberdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, args...)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, memorialdomain.ErrNotDeceased):
		h.log.BusinessError(op+": member not deceased", err, args...)
		writeError(w, http.StatusNotFound, "not_deceased", "memorial pages exist only for deceased members")
	case errors.Is(err, memorialdomain.ErrCondolenceNotFound):
		h.log.BusinessError(op+": condolence not found", err, args...)
		writeError(w, http.StatusNotFound, "condolence_not_found", "condolence not found")
	case errors.Is(err, memorialdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toCondolenceResponse(condolence memorialdomain.Condolence) condolenceResponse {
	return condolenceResponse{
		ID:         condolence.ID,
		MemberID:   condolence.MemberID,
		AuthorName: condolence.AuthorName,
		Message:    condolence.Message,
		CreatedAt:  condolence.CreatedAt,
	}
}
