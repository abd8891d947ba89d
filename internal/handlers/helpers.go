package handlers

import (
	"GophChat/internal/gemini"
	"GophChat/internal/middleware"
	"GophChat/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError переводит ошибку сервиса в HTTP-статус. Текст внутренних ошибок
// клиенту не отдаётся.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorw(op+": internal error", "error", err)
		writeMessage(w, status, "internal error")
		return
	}
	logger.Debugw(op, "status", status, "error", err)
	writeMessage(w, status, err.Error())
}

func statusFor(err error) int {
	var apiErr *gemini.APIError
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrLoginTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrMissingCredential), errors.Is(err, service.ErrImageUnsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr), errors.Is(err, service.ErrEmptyResponse), errors.Is(err, service.ErrNoImageData):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// requireUser достаёт user_id из контекста; без него отвечает 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

// decodeJSON читает тело запроса; при ошибке отвечает 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warnw(op+": invalid request body", "error", err)
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
