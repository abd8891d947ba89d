// Package model содержит представления ответов сервера на стороне CLI.
package model

import "time"

type ModelInfo struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Provider            string `json:"provider"`
	SupportsImageOutput bool   `json:"supports_image_output"`
}

type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	Role        string    `json:"role"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	ImageData   *string   `json:"image_data,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Key — ключ провайдера без секрета.
type Key struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	KeyName   string    `json:"key_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
