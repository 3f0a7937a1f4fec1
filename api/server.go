/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. requestLog: Structured request logging via zerolog
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/staff/*       Staff directory (read-only)
  /api/sections      Roster sections
  /api/holidays      Public holidays
  /api/shifts/*      Shift CRUD, move, clone
  /api/reports/*     Wage reports
  /api/payments/*    Weekly sealing
  /api/templates/*   Week templates
  /api/autocopy/*    Copy last week forward

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog(h))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Get("/{id}", h.GetStaff)
		})
		r.Get("/sections", h.ListSections)
		r.Get("/holidays", h.ListHolidays)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
			r.Post("/{id}/move", h.MoveShift)
			r.Post("/{id}/clone", h.CloneShift)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/payment", h.PaymentReport)
			r.Get("/wages", h.WeeklyWageReport)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/{staffId}/seal", h.SealWeek)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.CaptureTemplate)
			r.Post("/{id}/apply", h.ApplyTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
		})

		r.Route("/autocopy", func(r chi.Router) {
			r.Post("/preview", h.AutoCopyPreview)
			r.Post("/commit", h.AutoCopyCommit)
		})

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

// requestLog emits one structured log line per request.
func requestLog(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			h.Log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("requestId", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
