package service

import (
	"GophChat/internal/model"
	"GophChat/internal/repo"
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KeyInfo — ключ без секрета, для отдачи клиенту.
type KeyInfo struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	KeyName   string    `json:"key_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveKey — активный ключ с раскодированным секретом. Наружу не отдаётся.
type ActiveKey struct {
	KeyName string
	Secret  string
}

// KeyVault — ключи провайдеров пользователя. На пару (пользователь, провайдер)
// активен не более одного ключа.
type KeyVault struct {
	repo  repo.APIKeyRepository
	now   func() time.Time
	locks sync.Map // "userID/provider" -> *sync.Mutex
}

func NewKeyVault(r repo.APIKeyRepository) *KeyVault {
	return &KeyVault{repo: r, now: time.Now}
}

// Obscure кодирует секрет в base64. Это обратимое кодирование, не шифрование.
func Obscure(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Deobscure обратна Obscure.
func Deobscure(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (v *KeyVault) ListOwnedKeys(ctx context.Context, userID int64) ([]KeyInfo, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	keys, err := v.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]KeyInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyInfo{
			ID:        k.ID,
			Provider:  k.Provider,
			KeyName:   k.KeyName,
			IsActive:  k.IsActive,
			CreatedAt: k.CreatedAt,
		})
	}
	return out, nil
}

// SaveKey сохраняет новый ключ активным, остальные ключи провайдера деактивируются.
func (v *KeyVault) SaveKey(ctx context.Context, userID int64, provider, keyName, rawSecret string) (*KeyInfo, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	provider = strings.TrimSpace(provider)
	keyName = strings.TrimSpace(keyName)
	if provider == "" || keyName == "" || rawSecret == "" {
		return nil, ErrInvalidMessage
	}

	mu := v.lockFor(userID, provider)
	mu.Lock()
	defer mu.Unlock()

	key := &model.APIKey{
		ID:           uuid.NewString(),
		UserID:       userID,
		Provider:     provider,
		KeyName:      keyName,
		EncryptedKey: Obscure(rawSecret),
		CreatedAt:    v.now().UTC().Truncate(time.Microsecond),
	}
	if err := v.repo.ReplaceActive(ctx, key); err != nil {
		return nil, err
	}
	return &KeyInfo{
		ID:        key.ID,
		Provider:  key.Provider,
		KeyName:   key.KeyName,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
	}, nil
}

// GetActiveKey возвращает nil без ошибки, если активного ключа нет
// или вызывающий не аутентифицирован.
func (v *KeyVault) GetActiveKey(ctx context.Context, userID int64, provider string) (*ActiveKey, error) {
	if userID == 0 {
		return nil, nil
	}
	k, err := v.repo.GetActive(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	secret, err := Deobscure(k.EncryptedKey)
	if err != nil {
		return nil, err
	}
	return &ActiveKey{KeyName: k.KeyName, Secret: secret}, nil
}

func (v *KeyVault) DeleteKey(ctx context.Context, userID int64, keyID string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if !validID(keyID) {
		return ErrNotFound
	}
	return notFound(v.repo.Delete(ctx, userID, keyID))
}

func (v *KeyVault) lockFor(userID int64, provider string) *sync.Mutex {
	key := strings.Join([]string{strconv.FormatInt(userID, 10), provider}, "/")
	mu, _ := v.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
