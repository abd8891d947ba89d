package handlers

import (
	"GophChat/internal/catalog"
	"GophChat/internal/config"
	"GophChat/internal/metrics"
	"GophChat/internal/middleware"
	"GophChat/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services сервисы, которые обслуживает HTTP-слой.
type Services struct {
	Users      *service.UserService
	Chats      *service.ChatService
	Messages   *service.MessageService
	Keys       *service.KeyVault
	Generation *service.GenerationService
	Catalog    *catalog.Catalog
}

// NewHandler разводящий для хендлеров. При m == nil HTTP-метрики не собираются.
func NewHandler(
	svc Services,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	instrument := func(id string) func(http.Handler) http.Handler {
		if m == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return m.Middleware(id)
	}

	// Handlers
	userHandler := NewUserHandler(svc.Users, logger, config)
	chatHandler := NewChatHandler(svc.Chats, svc.Messages, logger)
	genHandler := NewGenerationHandler(svc.Generation, logger)
	keyHandler := NewKeyHandler(svc.Keys, logger)
	modelHandler := NewModelHandler(svc.Catalog)

	// User routes
	r.With(instrument("user")).Post("/api/user/register", userHandler.Register)
	r.With(instrument("user")).Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/test", userHandler.Status)

	r.With(instrument("models")).Get("/api/models", modelHandler.List)

	// Chats, messages and generation
	r.Route("/api/chats", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(instrument("chats"))
			r.Get("/", chatHandler.List)
			r.Post("/", chatHandler.Create)
			r.Get("/{chatID}", chatHandler.Get)
			r.Patch("/{chatID}", chatHandler.Rename)
			r.Delete("/{chatID}", chatHandler.Delete)
			r.Get("/{chatID}/messages", chatHandler.ListMessages)
			r.Post("/{chatID}/messages", chatHandler.AppendMessage)
		})
		r.With(instrument("generate_text")).Post("/{chatID}/send", genHandler.SendText)
		r.With(instrument("generate_image")).Post("/{chatID}/image", genHandler.GenerateImage)
	})

	// Keys
	r.Route("/api/keys", func(r chi.Router) {
		r.Use(instrument("keys"))
		r.Get("/", keyHandler.List)
		r.Post("/", keyHandler.Save)
		r.Delete("/{keyID}", keyHandler.Delete)
	})

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	return &Handler{Router: r}
}
