package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/accounting/journals"
	"github.com/meridian-erp/meridian-erp/internal/accounting/periods"
	"github.com/meridian-erp/meridian-erp/internal/accounting/reports"
	"github.com/meridian-erp/meridian-erp/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	JournalsHandler *journals.Handler
	PeriodsHandler  *periods.Handler
	AccountsHandler *accounts.Handler
	ReportsHandler  *reports.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/accounting", func(r chi.Router) {
		if params.JournalsHandler != nil {
			r.Route("/journals", params.JournalsHandler.MountRoutes)
		}
		if params.PeriodsHandler != nil {
			r.Route("/periods", params.PeriodsHandler.MountRoutes)
		}
		if params.AccountsHandler != nil {
			r.Route("/accounts", params.AccountsHandler.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/reports", params.ReportsHandler.MountRoutes)
		}
	})

	return r
}
