package handler

import "net/http"

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		h.log.InternalError("stats.get: build dashboard failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeData(w, http.StatusOK, dashboard)
}
