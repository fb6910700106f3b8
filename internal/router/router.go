package router

import (
	"net/http"

	"petbot/internal/domain/chat"
	"petbot/internal/domain/images"
	"petbot/internal/domain/pets"
	"petbot/internal/middleware"
	"petbot/internal/platform/logger"
	"petbot/internal/ports/imaging"

	_ "petbot/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Pets     *pets.Service
	Chat     *chat.Service
	Renderer imaging.Renderer

	// Vacío = modo dev (sin validar firma en /callback).
	WebhookSecret string

	// URL pública fija para las imágenes. Vacío = se deriva del request.
	BaseURL string

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Webhook firmado
	r.Group(func(g chi.Router) {
		g.Use(middleware.VerifySignature(opts.WebhookSecret))
		chat.RegisterRoutes(g, opts.Chat, chat.HandlerOptions{BaseURL: opts.BaseURL})
	})

	images.RegisterRoutes(r, opts.Renderer, images.Options{BaseURL: opts.BaseURL, Logger: log})
	pets.RegisterRoutes(r, opts.Pets)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
