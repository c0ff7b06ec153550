package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mindweave/mindweave-server/internal/api/http/handler"
	"github.com/mindweave/mindweave-server/internal/api/http/middleware"
	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// Handlers groups everything the router mounts. Analyze and Metrics are optional.
type Handlers struct {
	Auth         *handler.Auth
	Journal      *handler.Journal
	Subscription *handler.Subscription
	Export       *handler.Export
	Session      *handler.Session
	Health       *handler.Health
	Analyze      *handler.Analyze
	Metrics      http.Handler
}

// Router builds the HTTP API.
type Router struct {
	handlers       Handlers
	authenticator  middleware.Authenticator
	contextManager model.ContextManager
	rateLimiter    *middleware.RateLimiter
	recorder       middleware.RequestRecorder
	requestTimeout time.Duration
	logger         *logger.Logger
}

// New creates a Router. A nil rateLimiter or recorder disables that middleware.
func New(
	handlers Handlers,
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	rateLimiter *middleware.RateLimiter,
	recorder middleware.RequestRecorder,
	requestTimeout time.Duration,
	logger *logger.Logger,
) *Router {
	return &Router{
		handlers:       handlers,
		authenticator:  authenticator,
		contextManager: contextManager,
		rateLimiter:    rateLimiter,
		recorder:       recorder,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Register wires middleware and routes and returns the root handler.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLogging(rt.logger).Handle)
	if rt.recorder != nil {
		r.Use(middleware.NewMetrics(rt.recorder).Handle)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)

	if rt.handlers.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.handlers.Metrics)
	}

	authenticate := middleware.NewAuthenticate(rt.authenticator, rt.contextManager, rt.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", rt.handlers.Health.Health)

		// Unauthenticated routes are limited per client address.
		r.Group(func(r chi.Router) {
			rt.limit(r)
			r.Post("/auth/signup", rt.handlers.Auth.SignUp)
			r.Post("/auth/signin", rt.handlers.Auth.SignIn)
			r.Post("/auth/refresh", rt.handlers.Auth.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate.Handle)
			rt.limit(r)

			// The event stream is long-lived and must not be cut by the request timeout.
			r.Get("/session/events", rt.handlers.Session.Events)

			r.Group(func(r chi.Router) {
				if rt.requestTimeout > 0 {
					r.Use(chimw.Timeout(rt.requestTimeout))
				}

				r.Post("/auth/signout", rt.handlers.Auth.SignOut)
				r.Get("/me", rt.handlers.Auth.Me)
				r.Patch("/me", rt.handlers.Auth.UpdateMe)

				r.Route("/entries", func(r chi.Router) {
					r.Get("/", rt.handlers.Journal.ListEntries)
					r.Post("/", rt.handlers.Journal.Submit)
					r.Get("/calendar", rt.handlers.Journal.Calendar)
					r.Post("/refetch", rt.handlers.Journal.Refetch)
					r.Delete("/{id}", rt.handlers.Journal.DeleteEntry)
				})

				r.Get("/stats", rt.handlers.Journal.Stats)
				r.Get("/achievements", rt.handlers.Journal.Achievements)

				r.Route("/reflections", func(r chi.Router) {
					r.Get("/", rt.handlers.Journal.ListReflections)
					r.Get("/summary", rt.handlers.Journal.ReflectionSummary)
					r.Delete("/{id}", rt.handlers.Journal.DeleteReflection)
				})

				r.Get("/subscription", rt.handlers.Subscription.Status)

				r.Route("/exports", func(r chi.Router) {
					r.Get("/", rt.handlers.Export.List)
					r.Post("/", rt.handlers.Export.Create)
					r.Get("/{name}", rt.handlers.Export.Download)
					r.Delete("/{name}", rt.handlers.Export.Delete)
				})

				if rt.handlers.Analyze != nil {
					r.Post("/analyze", rt.handlers.Analyze.Analyze)
				}
			})
		})
	})

	return r
}

func (rt *Router) limit(r chi.Router) {
	if rt.rateLimiter != nil {
		r.Use(rt.rateLimiter.Handle)
	}
}
