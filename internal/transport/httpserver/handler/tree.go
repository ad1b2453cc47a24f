package handler

import (
	"errors"
	"net/http"

	memberdomain "giapha-go/internal/domain/member"
)

func (h *Handlers) GetTree(w http.ResponseWriter, r *http.Request) {
	root, unattached, err := h.Tree.TreeWithUnattached(r.Context())
	if err != nil {
		h.log.InternalError("tree.get: build tree failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if len(unattached) > 0 {
		h.log.Warn("tree.get: members not reachable from root", "count", len(unattached), "ids", unattached)
	}

	writeData(w, http.StatusOK, root)
}

func (h *Handlers) GetSubtree(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	root, err := h.Tree.Subtree(r.Context(), id)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMemberNotFound) {
			h.log.BusinessError("tree.subtree: member not found", err, "member_id", id)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("tree.subtree: build subtree failed", err, "member_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeData(w, http.StatusOK, root)
}
