package handlers

import (
	"GophChat/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GenerationHandler обрабатывает обращения к модели.
type GenerationHandler struct {
	Generation *service.GenerationService
	Logger     *zap.SugaredLogger
}

func NewGenerationHandler(gen *service.GenerationService, logger *zap.SugaredLogger) *GenerationHandler {
	return &GenerationHandler{Generation: gen, Logger: logger}
}

type sendTextRequest struct {
	Text   string `json:"text"`
	Model  string `json:"model,omitempty"`
	APIKey string `json:"api_key,omitempty"`
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
	APIKey string `json:"api_key,omitempty"`
}

// SendText отправляет реплику в чат и возвращает ответ модели.
// При ошибке генерации запись об ошибке уже лежит в чате, клиент получает её текст.
func (h *GenerationHandler) SendText(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req sendTextRequest
	if !decodeJSON(w, r, h.Logger, "SendText", &req) {
		return
	}
	reply, err := h.Generation.SendTextMessage(r.Context(), userID, chi.URLParam(r, "chatID"), req.Text, req.Model, req.APIKey)
	if err != nil {
		writeError(w, h.Logger, "SendText", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": reply})
}

// GenerateImage просит модель нарисовать изображение и возвращает подпись.
// Само изображение сохраняется в чате и читается через список сообщений.
func (h *GenerationHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req generateImageRequest
	if !decodeJSON(w, r, h.Logger, "GenerateImage", &req) {
		return
	}
	caption, err := h.Generation.GenerateImage(r.Context(), userID, chi.URLParam(r, "chatID"), req.Prompt, req.Model, req.APIKey)
	if err != nil {
		writeError(w, h.Logger, "GenerateImage", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"caption": caption})
}
