package model

import "time"

// Chat — серверная модель чата пользователя.
type Chat struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID int64  `gorm:"not null;index:idx_chats_user_updated,priority:1" json:"-"` // ссылка на users.id, не меняется

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Title   string `gorm:"not null" json:"title"`
	ModelID string `gorm:"not null" json:"model"`

	// Время выставляется сервисом явно, автоматические метки gorm отключены.
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false;index:idx_chats_user_updated,priority:2" json:"updated_at"`
}
