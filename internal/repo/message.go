package repo

import (
	"GophChat/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository — журнал сообщений чата (только добавление).
type MessageRepository interface {
	// Append в одной транзакции проверяет владельца чата, присваивает Seq,
	// вставляет сообщение и обновляет updated_at чата.
	Append(ctx context.Context, userID int64, msg *model.Message) error
	// ListByChat возвращает сообщения чата по возрастанию (timestamp, seq).
	ListByChat(ctx context.Context, userID int64, chatID string) ([]model.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepository создаёт реализацию репозитория для Message.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Append(ctx context.Context, userID int64, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// блокировка строки чата сериализует выдачу seq (в SQLite клауза опускается,
		// там запись сериализует _txlock=immediate)
		chat, err := ownedChat(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, msg.ChatID)
		if err != nil {
			return err
		}

		var maxSeq int64
		if err := tx.Model(&model.Message{}).
			Where("chat_id = ?", msg.ChatID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		msg.Seq = maxSeq + 1

		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&model.Chat{}).
			Where("id = ?", chat.ID).
			Update("updated_at", nextUpdatedAt(chat.UpdatedAt, msg.Timestamp)).Error
	})
}

func (r *messageRepo) ListByChat(ctx context.Context, userID int64, chatID string) ([]model.Message, error) {
	db := r.db.WithContext(ctx)
	if _, err := ownedChat(db, userID, chatID); err != nil {
		return nil, err
	}
	var msgs []model.Message
	err := db.Where("chat_id = ?", chatID).
		Order("sent_at ASC").
		Order("seq ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
