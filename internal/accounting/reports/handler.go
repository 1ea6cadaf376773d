package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

// Handler exposes the summary read model over HTTP.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
}

func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/daily-summary", h.DailySummary)
}

type dailyRow struct {
	EntryDate   string `json:"entry_date"`
	Entries     int64  `json:"entries"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
}

// DailySummary serves GET /daily-summary?company_id=&from=&to=. The range
// defaults to the last 30 days.
func (h *Handler) DailySummary(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id query parameter required")
		return
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid from date")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid to date")
			return
		}
	}
	if to.Before(from) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to precedes from")
		return
	}

	rows, err := h.repo.DailyRange(r.Context(), companyID, from, to)
	if err != nil {
		h.logger.Error("daily summary", slog.Int64("company_id", companyID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	out := make([]dailyRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dailyRow{
			EntryDate:   row.EntryDate.Format("2006-01-02"),
			Entries:     row.Entries,
			TotalDebit:  row.TotalDebit.StringFixed(2),
			TotalCredit: row.TotalCredit.StringFixed(2),
		})
	}
	totals := BuildTotals(rows)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"days": out,
		"totals": map[string]any{
			"entries":      totals.Entries,
			"total_debit":  totals.TotalDebit.StringFixed(2),
			"total_credit": totals.TotalCredit.StringFixed(2),
		},
	})
}
