package periods

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	accshared "github.com/meridian-erp/meridian-erp/internal/accounting/shared"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id query parameter required")
		return
	}
	periods, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list periods", slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"periods": toResponses(periods)})
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, PeriodStatusClosed)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, PeriodStatusOpen)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status PeriodStatus) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid period id")
		return
	}
	actorID, _ := shared.ActorFromContext(r.Context())
	var period Period
	if status == PeriodStatusClosed {
		period, err = h.service.Close(r.Context(), id, actorID)
	} else {
		period, err = h.service.Open(r.Context(), id, actorID)
	}
	if err != nil {
		h.logger.Error("set period status", slog.String("status", string(status)), slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(period))
}

type periodResponse struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Code      string `json:"code"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func toResponse(p Period) periodResponse {
	return periodResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Code:      p.Code,
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
		Status:    string(p.Status),
	}
}

func toResponses(in []Period) []periodResponse {
	out := make([]periodResponse, 0, len(in))
	for _, p := range in {
		out = append(out, toResponse(p))
	}
	return out
}
