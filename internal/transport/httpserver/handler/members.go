package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	memberdomain "giapha-go/internal/domain/member"
	"giapha-go/internal/export"
)

type memberRequest struct {
	FullName        string         `json:"full_name"`
	Gender          string         `json:"gender"`
	Generation      int            `json:"generation"`
	BirthOrder      int            `json:"birth_order"`
	ParentID        *string        `json:"parent_id"`
	SpouseID        *string        `json:"spouse_id"`
	SpouseIDs       []string       `json:"spouse_ids"`
	IsDeceased      bool           `json:"is_deceased"`
	BirthDate       string         `json:"birth_date"`
	DeathDate       string         `json:"death_date"`
	Avatar          string         `json:"avatar"`
	AnniversaryDate string         `json:"anniversary_date"`
	Biography       string         `json:"biography"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	Address         string         `json:"address"`
	BurialPlace     string         `json:"burial_place"`
	Details         map[string]any `json:"details"`
}

type memberResponse struct {
	ID              string         `json:"id"`
	FullName        string         `json:"full_name"`
	Gender          string         `json:"gender"`
	Generation      int            `json:"generation"`
	BirthOrder      int            `json:"birth_order"`
	ParentID        *string        `json:"parent_id"`
	SpouseID        *string        `json:"spouse_id"`
	SpouseIDs       []string       `json:"spouse_ids"`
	IsDeceased      bool           `json:"is_deceased"`
	BirthDate       *string        `json:"birth_date"`
	DeathDate       *string        `json:"death_date"`
	Avatar          string         `json:"avatar"`
	AnniversaryDate string         `json:"anniversary_date"`
	Biography       string         `json:"biography"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	Address         string         `json:"address"`
	BurialPlace     string         `json:"burial_place"`
	Details         map[string]any `json:"details"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	generation, err := parseOptionalInt(query.Get("generation"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid generation")
		return
	}
	isDeceased, err := parseOptionalBool(query.Get("is_deceased"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid is_deceased")
		return
	}
	parentID := optionalString(query.Get("parent_id"))
	if !validID(parentID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid parent_id")
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

	filter := memberdomain.ListFilter{
		Generation: generation,
		ParentID:   parentID,
		Gender:     memberdomain.Gender(strings.ToLower(strings.TrimSpace(query.Get("gender")))),
		IsDeceased: isDeceased,
		Query:      query.Get("q"),
		Limit:      limit,
		Offset:     offset,
	}

	items, total, err := h.Members.List(r.Context(), filter)
	if err != nil {
		h.log.InternalError("members.list: list members failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeData(w, http.StatusOK, listResponse{Items: toMemberResponses(items), Total: total})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	member, err := h.Members.Get(r.Context(), id)
	if err != nil {
		h.memberError(w, "members.get", err, "member_id", id)
		return
	}

	writeData(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) ListMemberChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	children, err := h.Members.Children(r.Context(), id)
	if err != nil {
		h.memberError(w, "members.children", err, "member_id", id)
		return
	}

	writeData(w, http.StatusOK, toMemberResponses(children))
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := toMemberInput(w, req)
	if !ok {
		return
	}

	member, err := h.Members.Create(r.Context(), input)
	if err != nil {
		h.memberError(w, "members.create", err)
		return
	}

	writeData(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := toMemberInput(w, req)
	if !ok {
		return
	}

	member, err := h.Members.Update(r.Context(), id, input)
	if err != nil {
		h.memberError(w, "members.update", err, "member_id", id)
		return
	}

	writeData(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	if err := h.Members.Delete(r.Context(), id); err != nil {
		h.memberError(w, "members.delete", err, "member_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ExportMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.ListAll(r.Context())
	if err != nil {
		h.log.InternalError("members.export: list members failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	body, err := export.Members(members)
	if err != nil {
		h.log.InternalError("members.export: render workbook failed", err, "count", len(members))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeFile(w, export.ContentType, "members-"+time.Now().Format("20060102")+".xlsx", body)
}

func (h *Handlers) memberError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, memberdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, args...)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, memberdomain.ErrParentNotFound):
		h.log.BusinessError(op+": parent not found", err, args...)
		writeError(w, http.StatusBadRequest, "parent_not_found", "parent not found")
	case errors.Is(err, memberdomain.ErrSpouseNotFound):
		h.log.BusinessError(op+": spouse not found", err, args...)
		writeError(w, http.StatusBadRequest, "spouse_not_found", "spouse not found")
	case errors.Is(err, memberdomain.ErrParentCycle):
		h.log.BusinessError(op+": parent cycle", err, args...)
		writeError(w, http.StatusBadRequest, "parent_cycle", "parent would create a cycle")
	case errors.Is(err, memberdomain.ErrHasChildren):
		h.log.BusinessError(op+": member has children", err, args...)
		writeError(w, http.StatusConflict, "has_children", "member has children")
	case errors.Is(err, memberdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toMemberInput(w http.ResponseWriter, req memberRequest) (memberdomain.Input, bool) {
	birthDate, err := parseDateParam(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid birth_date")
		return memberdomain.Input{}, false
	}
	deathDate, err := parseDateParam(req.DeathDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid death_date")
		return memberdomain.Input{}, false
	}
	if !validID(req.ParentID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid parent_id")
		return memberdomain.Input{}, false
	}
	if !validID(req.SpouseID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid spouse_id")
		return memberdomain.Input{}, false
	}
	for i := range req.SpouseIDs {
		if !validID(&req.SpouseIDs[i]) {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid spouse_ids")
			return memberdomain.Input{}, false
		}
	}

	return memberdomain.Input{
		FullName:        req.FullName,
		Gender:          memberdomain.Gender(req.Gender),
		Generation:      req.Generation,
		BirthOrder:      req.BirthOrder,
		ParentID:        req.ParentID,
		SpouseID:        req.SpouseID,
		SpouseIDs:       req.SpouseIDs,
		IsDeceased:      req.IsDeceased,
		BirthDate:       birthDate,
		DeathDate:       deathDate,
		Avatar:          req.Avatar,
		AnniversaryDate: req.AnniversaryDate,
		Biography:       req.Biography,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		BurialPlace:     req.BurialPlace,
		Details:         req.Details,
	}, true
}

func toMemberResponse(member memberdomain.Member) memberResponse {
	spouseIDs := member.SpouseIDs
	if spouseIDs == nil {
		spouseIDs = []string{}
	}
	return memberResponse{
		ID:              member.ID,
		FullName:        member.FullName,
		Gender:          string(member.Gender),
		Generation:      member.Generation,
		BirthOrder:      member.BirthOrder,
		ParentID:        member.ParentID,
		SpouseID:        member.SpouseID,
		SpouseIDs:       spouseIDs,
		IsDeceased:      member.IsDeceased,
		BirthDate:       formatDate(member.BirthDate),
		DeathDate:       formatDate(member.DeathDate),
		Avatar:          member.Avatar,
		AnniversaryDate: member.AnniversaryDate,
		Biography:       member.Biography,
		Phone:           member.Phone,
		Email:           member.Email,
		Address:         member.Address,
		BurialPlace:     member.BurialPlace,
		Details:         member.Details,
		CreatedAt:       member.CreatedAt,
		UpdatedAt:       member.UpdatedAt,
	}
}

func toMemberResponses(members []memberdomain.Member) []memberResponse {
	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, toMemberResponse(member))
	}
	return response
}
