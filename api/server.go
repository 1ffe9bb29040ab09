/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. AccessLog:  slog line per request (method, path, status, duration)
  4. CORS:       Cross-origin requests for the booking UI

TENANCY:
  Every /api route except /api/scenarios requires the X-Tenant-ID header.
  Authentication is handled in front of this service.

ROUTE GROUPS:
  /api/appointments/*   Booking, conflict check, reschedule, status
  /api/staff/*          Contracts, presences, commission, free slots
  /api/clients          Client directory (read by the engine)
  /api/financials/*     Reconciliation summary
  /api/reports/*        Monthly / yearly / style aggregates
  /api/alerts           Contract alerts from the background sweep
  /api/scenarios/*      Demo scenarios
  /health/*             Liveness / readiness

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// TenantHeader carries the caller's tenant.
const TenantHeader = "X-Tenant-ID"

type tenantKey struct{}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TenantHeader},
		AllowCredentials: true,
	}))

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", h.Ready)

	r.Route("/api", func(r chi.Router) {
		// Scenario routes carry the tenant in the body.
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireTenant)

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.ListAppointments)
				r.Post("/", h.ProposeAppointment)
				r.Post("/check", h.CheckConflict)
				r.Get("/conflicts", h.ScanConflicts)
				r.Get("/{id}", h.GetAppointment)
				r.Put("/{id}/schedule", h.RescheduleAppointment)
				r.Put("/{id}/financials", h.UpdateFinancials)
				r.Post("/{id}/status", h.TransitionStatus)
			})

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.ListStaff)
				r.Put("/{id}", h.SaveStaff)
				r.Get("/{id}/contract-status", h.GetContractStatus)
				r.Post("/{id}/presences", h.RecordPresence)
				r.Post("/{id}/renew-pack", h.RenewPack)
				r.Put("/{id}/commission", h.SetCommission)
				r.Get("/{id}/slots", h.FreeSlots)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.ListClients)
				r.Post("/", h.SaveClient)
			})

			r.Get("/financials/summary", h.GetFinancialSummary)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/monthly", h.GetMonthlyReport)
				r.Get("/yearly", h.GetYearlyReport)
				r.Get("/styles", h.GetStyleReport)
			})

			r.Get("/alerts", h.ListAlerts)
		})
	})

	return r
}

// requireTenant rejects requests without a tenant header.
func requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := strings.TrimSpace(r.Header.Get(TenantHeader))
		if tenant == "" {
			writeError(w, http.StatusBadRequest, "Missing "+TenantHeader+" header", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantKey{}, tenant)))
	})
}

func tenantFrom(r *http.Request) string {
	tenant, _ := r.Context().Value(tenantKey{}).(string)
	return tenant
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
