package service

import (
	"GophChat/internal/model"
	"GophChat/internal/repo"
	"context"
	"time"

	"github.com/google/uuid"
)

// NewMessage — входные данные для добавления сообщения.
type NewMessage struct {
	Role        model.Role
	ContentType model.ContentType // пусто: text
	Content     string
	ImageData   *string // обязателен для image, для text игнорируется
}

// MessageService — журнал сообщений чата. Сообщения только добавляются.
type MessageService struct {
	repo repo.MessageRepository
	now  func() time.Time
}

func NewMessageService(r repo.MessageRepository) *MessageService {
	return &MessageService{repo: r, now: time.Now}
}

// ListMessages возвращает все сообщения чата в каноническом порядке.
func (s *MessageService) ListMessages(ctx context.Context, userID int64, chatID string) ([]model.Message, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if !validID(chatID) {
		return nil, ErrNotFound
	}
	msgs, err := s.repo.ListByChat(ctx, userID, chatID)
	if err != nil {
		return nil, notFound(err)
	}
	return msgs, nil
}

// AppendMessage добавляет сообщение и обновляет updated_at чата.
func (s *MessageService) AppendMessage(ctx context.Context, userID int64, chatID string, in NewMessage) (*model.Message, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if !validID(chatID) {
		return nil, ErrNotFound
	}
	if in.ContentType == "" {
		in.ContentType = model.ContentText
	}
	if !in.Role.Valid() || !in.ContentType.Valid() {
		return nil, ErrInvalidMessage
	}
	imageData := in.ImageData
	switch in.ContentType {
	case model.ContentImage:
		if imageData == nil || *imageData == "" {
			return nil, ErrInvalidMessage
		}
	default:
		imageData = nil
	}

	msg := &model.Message{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		Role:        in.Role,
		ContentType: in.ContentType,
		Content:     in.Content,
		ImageData:   imageData,
		Timestamp:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Append(ctx, userID, msg); err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}
