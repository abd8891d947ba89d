package service

import (
	"GophChat/internal/catalog"
	"GophChat/internal/gemini"
	"GophChat/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// ErrorTurnPrefix начало сообщения ассистента о неудачной генерации.
	ErrorTurnPrefix = "Sorry, I encountered an error: "
	// DefaultImageCaption подпись, если модель не вернула текста к изображению.
	DefaultImageCaption = "Here is your generated image"
)

// Режимы генерации, они же значения метки mode.
const (
	ModeText  = "text"
	ModeImage = "image"
)

// Provider — внешняя модель. Реализация: *gemini.Client.
type Provider interface {
	GenerateText(ctx context.Context, model, apiKey string, turns []gemini.Turn) (string, error)
	GenerateImage(ctx context.Context, model, apiKey, prompt string) (*gemini.Image, error)
}

// GenerationRecorder принимает итог каждого цикла генерации.
type GenerationRecorder interface {
	ObserveGeneration(mode, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, string, time.Duration) {}

// GenerationService выполняет один цикл запрос/ответ к модели и всегда оставляет
// журнал сообщений в конечном состоянии: ответ ассистента или запись об ошибке.
type GenerationService struct {
	chats      *ChatService
	messages   *MessageService
	vault      *KeyVault
	catalog    *catalog.Catalog
	provider   Provider
	defaultKey string
	recorder   GenerationRecorder
	logger     *zap.SugaredLogger
}

// GenerationOption настраивает GenerationService.
type GenerationOption func(*GenerationService)

// WithDefaultAPIKey задаёт ключ, используемый когда нет ни явного, ни сохранённого.
func WithDefaultAPIKey(key string) GenerationOption {
	return func(s *GenerationService) { s.defaultKey = key }
}

func WithRecorder(r GenerationRecorder) GenerationOption {
	return func(s *GenerationService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l *zap.SugaredLogger) GenerationOption {
	return func(s *GenerationService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewGenerationService(
	chats *ChatService,
	messages *MessageService,
	vault *KeyVault,
	cat *catalog.Catalog,
	provider Provider,
	opts ...GenerationOption,
) *GenerationService {
	s := &GenerationService{
		chats:    chats,
		messages: messages,
		vault:    vault,
		catalog:  cat,
		provider: provider,
		recorder: nopRecorder{},
		logger:   zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SendTextMessage записывает реплику пользователя, отправляет модели всю историю
// чата и записывает ответ. При любой ошибке после записи реплики в чат
// добавляется сообщение об ошибке, а сама ошибка возвращается.
func (s *GenerationService) SendTextMessage(ctx context.Context, userID int64, chatID, text, modelID, apiKey string) (string, error) {
	if userID == 0 {
		return "", ErrUnauthenticated
	}
	chat, err := s.chats.GetChat(ctx, userID, chatID)
	if err != nil {
		return "", err
	}
	modelID = s.resolveModel(modelID, chat)

	started := time.Now()
	if _, err := s.appendText(ctx, userID, chatID, model.RoleUser, text); err != nil {
		return "", err
	}

	reply, err := s.generateText(ctx, userID, chatID, modelID, apiKey)
	if err != nil {
		return "", s.fail(ctx, userID, chatID, ModeText, modelID, started, err)
	}

	if _, err := s.appendText(ctx, userID, chatID, model.RoleAssistant, reply); err != nil {
		s.recorder.ObserveGeneration(ModeText, outcomeOf(err), time.Since(started))
		return "", err
	}
	s.recorder.ObserveGeneration(ModeText, outcomeSuccess, time.Since(started))
	return reply, nil
}

// GenerateImage записывает промпт пользователя и просит модель сгенерировать
// изображение. Возвращает подпись к изображению.
func (s *GenerationService) GenerateImage(ctx context.Context, userID int64, chatID, prompt, modelID, apiKey string) (string, error) {
	if userID == 0 {
		return "", ErrUnauthenticated
	}
	chat, err := s.chats.GetChat(ctx, userID, chatID)
	if err != nil {
		return "", err
	}
	modelID = s.resolveModel(modelID, chat)
	if m, ok := s.catalog.Lookup(modelID); !ok || !m.SupportsImageOutput {
		return "", ErrImageUnsupported
	}

	started := time.Now()
	if _, err := s.appendText(ctx, userID, chatID, model.RoleUser, prompt); err != nil {
		return "", err
	}

	key, err := s.resolveKey(ctx, userID, modelID, apiKey)
	if err != nil {
		return "", s.fail(ctx, userID, chatID, ModeImage, modelID, started, err)
	}
	img, err := s.provider.GenerateImage(ctx, modelID, key, prompt)
	if err != nil {
		return "", s.fail(ctx, userID, chatID, ModeImage, modelID, started, providerError(err))
	}

	caption := img.Caption
	if caption == "" {
		caption = DefaultImageCaption
	}
	data := img.Data
	_, err = s.messages.AppendMessage(ctx, userID, chatID, NewMessage{
		Role:        model.RoleAssistant,
		ContentType: model.ContentImage,
		Content:     caption,
		ImageData:   &data,
	})
	if err != nil {
		s.recorder.ObserveGeneration(ModeImage, outcomeOf(err), time.Since(started))
		return "", err
	}
	s.recorder.ObserveGeneration(ModeImage, outcomeSuccess, time.Since(started))
	return caption, nil
}

func (s *GenerationService) generateText(ctx context.Context, userID int64, chatID, modelID, apiKey string) (string, error) {
	history, err := s.messages.ListMessages(ctx, userID, chatID)
	if err != nil {
		return "", err
	}
	turns := make([]gemini.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, gemini.Turn{Role: providerRole(m.Role), Text: m.Content})
	}

	key, err := s.resolveKey(ctx, userID, modelID, apiKey)
	if err != nil {
		return "", err
	}
	reply, err := s.provider.GenerateText(ctx, modelID, key, turns)
	if err != nil {
		return "", providerError(err)
	}
	return reply, nil
}

// resolveModel: явная модель, затем модель чата, затем модель каталога по умолчанию.
func (s *GenerationService) resolveModel(explicit string, chat *model.Chat) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if chat != nil && chat.ModelID != "" {
		return chat.ModelID
	}
	return s.catalog.DefaultModel().ID
}

// resolveKey: явный ключ, затем активный ключ пользователя для провайдера модели,
// затем ключ из конфигурации.
func (s *GenerationService) resolveKey(ctx context.Context, userID int64, modelID, explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	active, err := s.vault.GetActiveKey(ctx, userID, s.catalog.ProviderOf(modelID))
	if err != nil {
		return "", err
	}
	if active != nil && active.Secret != "" {
		return active.Secret, nil
	}
	if s.defaultKey != "" {
		return s.defaultKey, nil
	}
	return "", ErrMissingCredential
}

// fail записывает в чат сообщение об ошибке и возвращает исходную ошибку.
// Запись выполняется и после отмены ctx, иначе таймаут провайдера оставил бы
// реплику пользователя без ответа.
func (s *GenerationService) fail(ctx context.Context, userID int64, chatID, mode, modelID string, started time.Time, cause error) error {
	outcome := outcomeOf(cause)
	s.recorder.ObserveGeneration(mode, outcome, time.Since(started))
	s.logger.Warnw("generation failed",
		"mode", mode,
		"model", modelID,
		"chat", chatID,
		"outcome", outcome,
		"error", cause,
	)

	if _, err := s.appendText(context.WithoutCancel(ctx), userID, chatID, model.RoleAssistant, ErrorTurnPrefix+cause.Error()); err != nil {
		s.logger.Errorw("failed to record error turn", "chat", chatID, "error", err)
	}
	return cause
}

func (s *GenerationService) appendText(ctx context.Context, userID int64, chatID string, role model.Role, text string) (*model.Message, error) {
	return s.messages.AppendMessage(ctx, userID, chatID, NewMessage{
		Role:        role,
		ContentType: model.ContentText,
		Content:     text,
	})
}

// providerRole переводит роль журнала в роль провайдера.
func providerRole(r model.Role) string {
	if r == model.RoleAssistant {
		return "model"
	}
	return string(r)
}

// Значения метки outcome.
const (
	outcomeSuccess           = "success"
	outcomeMissingCredential = "missing_credential"
	outcomeProviderError     = "provider_error"
	outcomeEmptyResponse     = "empty_response"
	outcomeNoImageData       = "no_image_data"
	outcomeError             = "error"
)

func outcomeOf(err error) string {
	var apiErr *gemini.APIError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrMissingCredential):
		return outcomeMissingCredential
	case errors.As(err, &apiErr):
		return outcomeProviderError
	case errors.Is(err, ErrEmptyResponse):
		return outcomeEmptyResponse
	case errors.Is(err, ErrNoImageData):
		return outcomeNoImageData
	default:
		return outcomeError
	}
}
