package http

import (
	"io"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	leaveHandler *RequestHandler[leave.Payload],
	overtimeHandler *RequestHandler[overtime.Payload],
	salaryHandler SalaryHandler,
	complaintHandler ComplaintHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/leave-requests", leaveHandler.Routes)
			r.Route("/overtime-requests", overtimeHandler.Routes)

			r.Route("/salaries", func(r chi.Router) {
				r.Post("/calculate", salaryHandler.Calculate)
				r.Get("/", salaryHandler.List)
				r.Get("/mine", salaryHandler.ListMine)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", salaryHandler.Get)
					r.Patch("/", salaryHandler.UpdateAdjustments)
					r.Get("/pdf", salaryHandler.DownloadPDF)
					r.Post("/approve", salaryHandler.Approve)
					r.Post("/pay", salaryHandler.Pay)
					r.Post("/confirm", salaryHandler.Confirm)
					r.Post("/cancel", salaryHandler.Cancel)
				})
			})

			r.Route("/salary-complaints", func(r chi.Router) {
				r.Post("/", complaintHandler.Create)
				r.Get("/", complaintHandler.List)
				r.Get("/mine", complaintHandler.ListMine)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", complaintHandler.Get)
					r.Post("/review", complaintHandler.StartReview)
					r.Post("/resolve", complaintHandler.Resolve)
				})
			})
		})
	})

	return r
}

// NewLogger builds the JSON access logger in the ECS schema.
func NewLogger(w io.Writer, app, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("env", env),
	)
}
