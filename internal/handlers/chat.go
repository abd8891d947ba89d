package handlers

import (
	"GophChat/internal/model"
	"GophChat/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatHandler — чаты и журнал сообщений.
type ChatHandler struct {
	Chats    *service.ChatService
	Messages *service.MessageService
	Logger   *zap.SugaredLogger
}

func NewChatHandler(chats *service.ChatService, messages *service.MessageService, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{Chats: chats, Messages: messages, Logger: logger}
}

type createChatRequest struct {
	Title string `json:"title"`
	Model string `json:"model"`
}

type renameChatRequest struct {
	Title string `json:"title"`
}

type appendMessageRequest struct {
	Role        model.Role        `json:"role"`
	ContentType model.ContentType `json:"content_type"`
	Content     string            `json:"content"`
	ImageData   *string           `json:"image_data,omitempty"`
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chats, err := h.Chats.ListChats(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "ListChats", err)
		return
	}
	if chats == nil {
		chats = []model.Chat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createChatRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, h.Logger, "CreateChat", &req) {
		return
	}
	chat, err := h.Chats.CreateChat(r.Context(), userID, req.Title, req.Model)
	if err != nil {
		writeError(w, h.Logger, "CreateChat", err)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chat, err := h.Chats.GetChat(r.Context(), userID, chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, h.Logger, "GetChat", err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req renameChatRequest
	if !decodeJSON(w, r, h.Logger, "RenameChat", &req) {
		return
	}
	chat, err := h.Chats.RenameChat(r.Context(), userID, chi.URLParam(r, "chatID"), req.Title)
	if err != nil {
		writeError(w, h.Logger, "RenameChat", err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.Chats.DeleteChat(r.Context(), userID, chi.URLParam(r, "chatID")); err != nil {
		writeError(w, h.Logger, "DeleteChat", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	msgs, err := h.Messages.ListMessages(r.Context(), userID, chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, h.Logger, "ListMessages", err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// AppendMessage добавляет сообщение без обращения к модели (например, системную реплику).
func (h *ChatHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req appendMessageRequest
	if !decodeJSON(w, r, h.Logger, "AppendMessage", &req) {
		return
	}
	msg, err := h.Messages.AppendMessage(r.Context(), userID, chi.URLParam(r, "chatID"), service.NewMessage{
		Role:        req.Role,
		ContentType: req.ContentType,
		Content:     req.Content,
		ImageData:   req.ImageData,
	})
	if err != nil {
		writeError(w, h.Logger, "AppendMessage", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
