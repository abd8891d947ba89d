package handlers

import (
	"GophChat/internal/config"
	"GophChat/internal/middleware"
	"GophChat/internal/service"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация и вход.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register регистрирует пользователя и сразу авторизует его cookie.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, h.Logger, "Register", &req) {
		return
	}
	user, err := h.UserService.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}
	h.authorize(w, user.ID, "Register")
}

// Login проверяет логин и пароль и ставит cookie авторизации.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, h.Logger, "Login", &req) {
		return
	}
	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	h.authorize(w, user.ID, "Login")
}

// Status сообщает, кем сервер считает вызывающего.
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	result := "anonymous"
	if ok {
		result = fmt.Sprintf("User ID = %d", userID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func (h *UserHandler) authorize(w http.ResponseWriter, userID int64, op string) {
	if err := middleware.SetLoginCookie(w, userID, h.Config.AuthSecret); err != nil {
		writeError(w, h.Logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID})
}
