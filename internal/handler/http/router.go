package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplemesh/hrops-console-go/internal/handler/http/middleware"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/jwt"
)

func newLogger(app, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("env", env),
	)
}

// NewRouter builds the console gateway router.
func NewRouter(
	env string,
	jwtService jwt.Service,
	leaveHandler LeaveHandler,
	eventsHandler EventsHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logger := newLogger("hrops-gateway", env)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", EditSessionHeader},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// SSE stream authenticates via short-lived query token, not a header.
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leave-requests", func(r chi.Router) {
				r.Get("/", leaveHandler.ListRequests)
				r.Post("/approve", leaveHandler.ApproveRequest)
				r.Post("/reject", leaveHandler.RejectRequest)
				r.Post("/cancel", leaveHandler.CancelRequest)
				r.Post("/approve-batch", leaveHandler.ApproveBatch)
				r.Post("/reject-batch", leaveHandler.RejectBatch)
				r.Put("/update", leaveHandler.UpdateRequest)
				r.Post("/{id}/edit-session", leaveHandler.OpenEditSession)
			})

			r.Delete("/edit-sessions/{sessionID}", leaveHandler.CloseEditSession)

			r.Get("/holidays/by-location", leaveHandler.ListHolidays)

			r.Get("/events/token", eventsHandler.GetSSEToken)
			r.Post("/events/refresh", eventsHandler.Refresh)

			r.Get("/reports/timesheets/monthly", reportHandler.MonthlyTimesheet)
		})
	})
	return r
}

// NewLockRouter builds the record-lock daemon router.
func NewLockRouter(env string, lockHandler LockHandler) *chi.Mux {
	r := chi.NewRouter()
	logger := newLogger("hrops-lockd", env)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/lock", func(r chi.Router) {
		r.Post("/lock", lockHandler.Lock)
		r.Post("/release", lockHandler.Release)
		r.Get("/check", lockHandler.Check)
	})
	return r
}
