package model

import "time"

// User — учётная запись пользователя. Владелец чатов и ключей.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"not null;uniqueIndex"`
	Password string `gorm:"not null"` // bcrypt-хеш

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
