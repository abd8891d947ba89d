package model

import "time"

// Role автор сообщения.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid проверяет, что роль входит в допустимый набор.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ContentType тип содержимого сообщения.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

func (c ContentType) Valid() bool {
	return c == ContentText || c == ContentImage
}

// Message — одна реплика в чате. После вставки не изменяется.
type Message struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	ChatID string `gorm:"type:uuid;not null;index:idx_messages_chat_order,priority:1;uniqueIndex:idx_messages_chat_seq,priority:1" json:"chat_id"`

	Chat *Chat `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	// Seq порядковый номер вставки внутри чата, разрешает совпадения timestamp.
	Seq int64 `gorm:"not null;index:idx_messages_chat_order,priority:3;uniqueIndex:idx_messages_chat_seq,priority:2" json:"seq"`

	Role        Role        `gorm:"type:varchar(16);not null" json:"role"`
	ContentType ContentType `gorm:"type:varchar(16);not null;default:text" json:"content_type"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	ImageData   *string     `gorm:"type:text" json:"image_data,omitempty"` // base64, только для ContentImage

	Timestamp time.Time `gorm:"column:sent_at;not null;index:idx_messages_chat_order,priority:2" json:"timestamp"`
}
