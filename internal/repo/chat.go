package repo

import (
	"GophChat/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ChatRepository — доступ к чатам. Все методы фильтруют по владельцу:
// чужой чат неотличим от несуществующего (gorm.ErrRecordNotFound).
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	GetByID(ctx context.Context, userID int64, id string) (*model.Chat, error)
	// ListRecent возвращает чаты пользователя по убыванию updated_at, не более limit.
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.Chat, error)
	UpdateTitle(ctx context.Context, userID int64, id, title string, at time.Time) (*model.Chat, error)
	// DeleteCascade удаляет сообщения и сам чат в одной транзакции.
	DeleteCascade(ctx context.Context, userID int64, id string) error
}

type chatRepo struct {
	db *gorm.DB
}

// NewChatRepository создаёт реализацию репозитория для Chat.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Create(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Chat, error) {
	return ownedChat(r.db.WithContext(ctx), userID, id)
}

func (r *chatRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepo) UpdateTitle(ctx context.Context, userID int64, id, title string, at time.Time) (*model.Chat, error) {
	var out *model.Chat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := ownedChat(tx, userID, id)
		if err != nil {
			return err
		}
		updated := nextUpdatedAt(chat.UpdatedAt, at)
		if err := tx.Model(&model.Chat{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{"title": title, "updated_at": updated}).Error; err != nil {
			return err
		}
		chat.Title = title
		chat.UpdatedAt = updated
		out = chat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chatRepo) DeleteCascade(ctx context.Context, userID int64, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedChat(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Chat{}).Error
	})
}

// ownedChat единственная точка чтения чата: id и владелец проверяются вместе.
func ownedChat(db *gorm.DB, userID int64, id string) (*model.Chat, error) {
	var chat model.Chat
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// nextUpdatedAt гарантирует строгое возрастание updated_at даже при неподвижных часах.
func nextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}
