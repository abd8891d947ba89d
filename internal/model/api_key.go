package model

import "time"

// APIKey — ключ пользователя к внешнему провайдеру. Секрет хранится в обратимо
// закодированном виде (см. service.Obscure), это не шифрование.
type APIKey struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index:idx_api_keys_user_provider,priority:1;uniqueIndex:idx_api_keys_active,priority:1,where:is_active = true"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Provider     string    `gorm:"not null;index:idx_api_keys_user_provider,priority:2;uniqueIndex:idx_api_keys_active,priority:2,where:is_active = true"`
	KeyName      string    `gorm:"not null"`
	EncryptedKey string    `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
}
