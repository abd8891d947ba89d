package repo

import (
	"GophChat/internal/model"
	"context"

	"gorm.io/gorm"
)

// APIKeyRepository — хранилище ключей провайдеров.
type APIKeyRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.APIKey, error)
	// ReplaceActive деактивирует все ключи (user, provider) и вставляет key активным в одной транзакции.
	ReplaceActive(ctx context.Context, key *model.APIKey) error
	// GetActive возвращает gorm.ErrRecordNotFound, если активного ключа нет.
	GetActive(ctx context.Context, userID int64, provider string) (*model.APIKey, error)
	Delete(ctx context.Context, userID int64, id string) error
}

type apiKeyRepo struct {
	db *gorm.DB
}

// NewAPIKeyRepository создаёт реализацию репозитория для APIKey.
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) ListByUser(ctx context.Context, userID int64) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepo) ReplaceActive(ctx context.Context, key *model.APIKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.APIKey{}).
			Where("user_id = ? AND provider = ? AND is_active = ?", key.UserID, key.Provider, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		key.IsActive = true
		return tx.Create(key).Error
	})
}

func (r *apiKeyRepo) GetActive(ctx context.Context, userID int64, provider string) (*model.APIKey, error) {
	var k model.APIKey
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND is_active = ?", userID, provider, true).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *apiKeyRepo) Delete(ctx context.Context, userID int64, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.APIKey{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
