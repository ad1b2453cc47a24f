package handler

import (
	"errors"
	"net/http"

	settingsdomain "giapha-go/internal/domain/settings"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	values, err := h.Settings.All(r.Context())
	if err != nil {
		h.log.InternalError("settings.get: load settings failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeData(w, http.StatusOK, values)
}

func (h *Handlers) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	values, err := h.Settings.Put(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, settingsdomain.ErrInvalidKey), errors.Is(err, settingsdomain.ErrValueTooLong):
			h.log.BusinessError("settings.put: invalid input", err, "keys", len(req))
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("settings.put: save settings failed", err, "keys", len(req))
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeData(w, http.StatusOK, values)
}

func (h *Handlers) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.Settings.Get(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, settingsdomain.ErrInvalidKey), errors.Is(err, settingsdomain.ErrSettingNotFound):
			h.log.BusinessError("settings.get_key: setting not found", err, "key", key)
			writeError(w, http.StatusNotFound, "setting_not_found", "setting not found")
		default:
			h.log.InternalError("settings.get_key: load setting failed", err, "key", key)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeData(w, http.StatusOK, map[string]string{key: value})
}
