package handlers_test

import (
	"GophChat/internal/catalog"
	"GophChat/internal/config"
	"GophChat/internal/gemini"
	"GophChat/internal/handlers"
	"GophChat/internal/metrics"
	"GophChat/internal/middleware"
	"GophChat/internal/repo"
	"GophChat/internal/service"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

type testApp struct {
	router  http.Handler
	cfg     *config.Config
	metrics *metrics.Metrics
}

// newTestApp собирает роутер поверх in-memory SQLite и stub-провайдера.
// ur == nil — пользователи тоже хранятся в SQLite.
func newTestApp(t *testing.T, ur repo.UserRepository, provider http.HandlerFunc) *testApp {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(db))

	if ur == nil {
		ur = repo.NewUserRepository(db)
	}
	if provider == nil {
		provider = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected provider call: %s", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
	stub := httptest.NewServer(provider)
	t.Cleanup(stub.Close)

	cfg := &config.Config{AuthSecret: testSecret, GeminiAPIKey: "default-key"}
	logger := zap.NewNop().Sugar()
	m := metrics.New()
	cat := catalog.New(
		catalog.Model{ID: "m1", Name: "Model One", Provider: catalog.ProviderGoogle},
		catalog.Model{ID: "img-model", Name: "Image Model", Provider: catalog.ProviderGoogle, SupportsImageOutput: true},
	)

	chats := service.NewChatService(repo.NewChatRepository(db), cat)
	messages := service.NewMessageService(repo.NewMessageRepository(db))
	keys := service.NewKeyVault(repo.NewAPIKeyRepository(db))
	gen := service.NewGenerationService(chats, messages, keys, cat,
		gemini.NewClient(gemini.WithBaseURL(stub.URL)),
		service.WithDefaultAPIKey(cfg.GeminiAPIKey),
		service.WithRecorder(m),
		service.WithLogger(logger),
	)

	h := handlers.NewHandler(handlers.Services{
		Users:      service.NewUserService(ur),
		Chats:      chats,
		Messages:   messages,
		Keys:       keys,
		Generation: gen,
		Catalog:    cat,
	}, m, logger, cfg)
	return &testApp{router: h.Router, cfg: cfg, metrics: m}
}

func newTestRouter(t *testing.T, ur repo.UserRepository) http.Handler {
	t.Helper()
	return newTestApp(t, ur, nil).router
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// do выполняет запрос от имени userID (0 — анонимно) и возвращает recorder.
func (a *testApp) do(t *testing.T, userID int64, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		addAuthCookie(t, req, userID, a.cfg.AuthSecret)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v), rr.Body.String())
	return v
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
