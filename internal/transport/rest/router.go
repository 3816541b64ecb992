package rest

import (
	"log/slog"
	"net/http"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/auth"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/blob"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/cv"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/dashboard"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport/middleware"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport/swagger"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything mounted by RegisterAllRoutes. Nil handlers
// leave their routes out.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Employee  *employee.Handler
	Files     *blob.Handler
	Dashboard *dashboard.Handler
	CV        *cv.Handler
	Health    *HealthHandler
}

// RouterConfig tunes the global middleware. A nil Validator skips contract
// checks.
type RouterConfig struct {
	AllowedOrigins []string
	OpenAPIPath    string
	Validator      *middleware.OpenAPIValidator
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, sessions middleware.SessionAuthorizer, cfg RouterConfig, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	openAPIPath := cfg.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Files != nil {
			r.Get("/files/*", h.Files.ServeFile)
			r.Head("/files/*", h.Files.ServeFile)
		}

		r.Group(func(vr chi.Router) {
			if cfg.Validator != nil {
				vr.Use(cfg.Validator.Middleware)
			}

			if h.Auth != nil {
				vr.Route("/auth", func(sr chi.Router) {
					sr.Post("/register", h.Auth.Register)
					sr.Post("/login", h.Auth.Login)
					sr.Post("/refresh", h.Auth.RefreshToken)
					sr.With(middleware.RequireSession(sessions)).Post("/logout", h.Auth.Logout)
				})
			}

			vr.Group(func(pr chi.Router) {
				pr.Use(middleware.RequireSession(sessions))

				if h.User != nil {
					pr.Get("/users/me", h.User.Me)
				}
				if h.Employee != nil {
					pr.Route("/employees", h.Employee.Routes)
				}
				if h.Dashboard != nil {
					pr.Route("/dashboard", h.Dashboard.Routes)
				}
				if h.CV != nil {
					pr.Route("/cv", h.CV.Routes)
				}
			})
		})
	})
}
