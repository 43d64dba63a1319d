package rest

import (
	"context"
	"listings-service/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const healthPath = "/healthz"

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты сервиса. Вынесен отдельно, чтобы тесты работали с http.Handler.
func NewRouter(
	listingsHandler *ListingsHandler,
	adminHandler *AdminHandler,
	healthHandler *HealthHandler,
	allowedOrigins []string,
	baseLogger port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", listingsHandler.Index)
	r.Get("/publicar", listingsHandler.PublishForm)
	r.Post("/publicar", listingsHandler.Publish)

	r.Route("/editar/{listingID}", func(r chi.Router) {
		r.Get("/", adminHandler.EditForm)
		r.Post("/", adminHandler.Edit)
	})

	r.Get(healthPath, healthHandler.Check)

	return r
}

func NewServer(port string, handler http.Handler, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
