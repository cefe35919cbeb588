package http

import (
	"log/slog"
	"os"

	"github.com/babralau/timesheet-web-go/internal/config"
	"github.com/babralau/timesheet-web-go/internal/handler/http/middleware"
	"github.com/babralau/timesheet-web-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, authHandler AuthHandler, timesheetHandler TimesheetHandler, exportHandler ExportHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet-web"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Route("/oauth", func(r chi.Router) {
				r.Get("/google", authHandler.GoogleRedirect)
				r.Get("/google/callback", authHandler.GoogleCallback)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Route("/timesheet", func(r chi.Router) {
				r.Post("/view", timesheetHandler.EntryView)
				// Read-only report table: same derivation, no writes.
				r.Post("/report", timesheetHandler.EntryView)
				r.Post("/entries", timesheetHandler.Create)
				r.Put("/entries", timesheetHandler.Update)
				r.Delete("/entries", timesheetHandler.Delete)
				r.Post("/submit", timesheetHandler.Submit)
				r.Get("/categories", timesheetHandler.Categories)
				r.Post("/export", exportHandler.Download)
				r.Post("/import", exportHandler.ImportWeek)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerRequired)
					r.Post("/approval/view", timesheetHandler.ApprovalView)
					r.Post("/approval", timesheetHandler.Approve)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.ManagerRequired)
				r.Post("/auth/users", authHandler.AddUser)
			})
		})
	})

	return r
}
