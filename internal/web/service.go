package web

import (
	"context"
	"net/http"

	"github.com/OmarCloud20/bedtime-stories/internal/config"
	"github.com/OmarCloud20/bedtime-stories/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Authenticator exchanges user credentials for an identity token.
// A failed exchange is reported through the boolean; it never raises an error.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, bool)
}

// Generator produces a story text for a topic.
// A failed generation is reported through the boolean; it never raises an error.
type Generator interface {
	Generate(ctx context.Context, topic string) (string, bool)
}

// Service represents the web frontend service
type Service struct {
	server *http.Server

	Config *config.Config

	Sessions session.Storage
	Identity Authenticator
	Stories  Generator

	renderer *renderer
}

// Handler assembles the HTTP handler of the web frontend
func (service *Service) Handler() (http.Handler, error) {
	// Create the view renderer
	renderer, err := newRenderer(func(err error) {
		log.Error().Err(err).Msg("the web frontend experienced an unexpected error")
	})
	if err != nil {
		return nil, err
	}
	service.renderer = renderer

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Register the page & form endpoints
	router.Get("/", withMiddlewares(service.EndpointHome, service.MiddlewareVerifySession))
	router.Get("/about", service.EndpointAbout)
	router.Get("/login", service.EndpointLoginForm)
	router.Post("/login", service.EndpointLogin)
	router.Get("/logout", service.EndpointLogout)
	router.Post("/generate-story", withMiddlewares(service.EndpointGenerateStory, service.MiddlewareVerifySession))

	return router, nil
}

// Startup starts up the web frontend
func (service *Service) Startup() error {
	handler, err := service.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    service.Config.ListenAddress,
		Handler: handler,
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the web frontend
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}

func withMiddlewares(end http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	final := end
	for i := len(middlewares); i > 0; i-- {
		final = middlewares[i-1](final)
	}
	return final
}
