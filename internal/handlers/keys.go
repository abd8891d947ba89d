package handlers

import (
	"GophChat/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// KeyHandler — ключи провайдеров. Секреты наружу не отдаются.
type KeyHandler struct {
	Keys   *service.KeyVault
	Logger *zap.SugaredLogger
}

func NewKeyHandler(keys *service.KeyVault, logger *zap.SugaredLogger) *KeyHandler {
	return &KeyHandler{Keys: keys, Logger: logger}
}

type saveKeyRequest struct {
	Provider string `json:"provider"`
	KeyName  string `json:"key_name"`
	Secret   string `json:"secret"`
}

func (h *KeyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	keys, err := h.Keys.ListOwnedKeys(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "ListKeys", err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (h *KeyHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req saveKeyRequest
	if !decodeJSON(w, r, h.Logger, "SaveKey", &req) {
		return
	}
	info, err := h.Keys.SaveKey(r.Context(), userID, req.Provider, req.KeyName, req.Secret)
	if err != nil {
		writeError(w, h.Logger, "SaveKey", err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *KeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.Keys.DeleteKey(r.Context(), userID, chi.URLParam(r, "keyID")); err != nil {
		writeError(w, h.Logger, "DeleteKey", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
