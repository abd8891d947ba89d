package service

import (
	"GophChat/internal/catalog"
	"GophChat/internal/gemini"
	"GophChat/internal/repo"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// testCatalog — модели сценариев: текстовая m1 и img-model с выводом изображений.
func testCatalog() *catalog.Catalog {
	return catalog.New(
		catalog.Model{ID: "m1", Name: "Model One", Provider: catalog.ProviderGoogle},
		catalog.Model{ID: "img-model", Name: "Image Model", Provider: catalog.ProviderGoogle, SupportsImageOutput: true},
	)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(db))
	return db
}

// testEnv — сервисы поверх одной in-memory базы.
type testEnv struct {
	db       *gorm.DB
	catalog  *catalog.Catalog
	chats    *ChatService
	messages *MessageService
	vault    *KeyVault
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cat := testCatalog()
	return &testEnv{
		db:       db,
		catalog:  cat,
		chats:    NewChatService(repo.NewChatRepository(db), cat),
		messages: NewMessageService(repo.NewMessageRepository(db)),
		vault:    NewKeyVault(repo.NewAPIKeyRepository(db)),
	}
}

// gateway собирает GenerationService с настоящим gemini-клиентом, смотрящим на stub.
func (e *testEnv) gateway(t *testing.T, stub http.HandlerFunc, opts ...GenerationOption) *GenerationService {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	client := gemini.NewClient(gemini.WithBaseURL(srv.URL), gemini.WithTimeout(5*time.Second))
	return NewGenerationService(e.chats, e.messages, e.vault, e.catalog, client, opts...)
}

func (e *testEnv) mkChat(t *testing.T, userID int64, modelID string) string {
	t.Helper()
	chat, err := e.chats.CreateChat(context.Background(), userID, "test", modelID)
	require.NoError(t, err)
	return chat.ID
}

// respond отвечает заданным статусом и телом.
func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
