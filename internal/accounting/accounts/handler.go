package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

// Handler exposes the read-only account directory, mainly so posting UIs can
// offer an account picker without a second service.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

type accountResponse struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
	IsDetail bool   `json:"is_detail"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id query parameter required")
		return
	}
	accounts, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			ID:       a.ID,
			Code:     a.Code,
			Name:     a.Name,
			ParentID: a.ParentID,
			IsDetail: a.IsDetail,
			IsActive: a.IsActive,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": out})
}
