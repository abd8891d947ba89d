package service

import (
	"GophChat/internal/catalog"
	"GophChat/internal/model"
	"GophChat/internal/repo"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ChatListLimit: сколько чатов отдаёт ListChats, пагинации нет.
	ChatListLimit = 50
	// DefaultChatTitle: заголовок нового чата, если не задан.
	DefaultChatTitle = "New Chat"
)

// ChatService — хранилище чатов с проверкой владельца.
type ChatService struct {
	repo    repo.ChatRepository
	catalog *catalog.Catalog
	now     func() time.Time
}

func NewChatService(r repo.ChatRepository, c *catalog.Catalog) *ChatService {
	return &ChatService{repo: r, catalog: c, now: time.Now}
}

// ListChats возвращает последние чаты пользователя по убыванию updated_at.
func (s *ChatService) ListChats(ctx context.Context, userID int64) ([]model.Chat, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListRecent(ctx, userID, ChatListLimit)
}

func (s *ChatService) GetChat(ctx context.Context, userID int64, chatID string) (*model.Chat, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if !validID(chatID) {
		return nil, ErrNotFound
	}
	chat, err := s.repo.GetByID(ctx, userID, chatID)
	if err != nil {
		return nil, notFound(err)
	}
	return chat, nil
}

// CreateChat создаёт чат; пустая модель заменяется моделью каталога по умолчанию.
func (s *ChatService) CreateChat(ctx context.Context, userID int64, title, modelID string) (*model.Chat, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultChatTitle
	}
	if modelID == "" {
		modelID = s.catalog.DefaultModel().ID
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	chat := &model.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		ModelID:   modelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) RenameChat(ctx context.Context, userID int64, chatID, title string) (*model.Chat, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if !validID(chatID) {
		return nil, ErrNotFound
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidMessage
	}
	chat, err := s.repo.UpdateTitle(ctx, userID, chatID, title, s.now())
	if err != nil {
		return nil, notFound(err)
	}
	return chat, nil
}

// DeleteChat удаляет чат вместе с сообщениями (одна транзакция).
func (s *ChatService) DeleteChat(ctx context.Context, userID int64, chatID string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if !validID(chatID) {
		return ErrNotFound
	}
	return notFound(s.repo.DeleteCascade(ctx, userID, chatID))
}
