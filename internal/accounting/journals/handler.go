package journals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	accshared "github.com/meridian-erp/meridian-erp/internal/accounting/shared"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler wires the posting contract over HTTP for sub-ledgers and UIs.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	idem     *shared.IdempotencyStore
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, idem *shared.IdempotencyStore) *Handler {
	return &Handler{logger: logger, service: service, idem: idem, validate: validator.New()}
}

type lineRequest struct {
	AccountID   int64  `json:"account_id" validate:"required"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Description string `json:"description"`
	LineNumber  int32  `json:"line_number"`
}

type createRequest struct {
	CompanyID    int64         `json:"company_id" validate:"required"`
	EntryDate    string        `json:"entry_date" validate:"required,datetime=2006-01-02"`
	EntryType    string        `json:"entry_type"`
	Description  string        `json:"description"`
	TargetStatus string        `json:"target_status"`
	Lines        []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

type updateRequest struct {
	EntryDate    *string       `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
	EntryType    *string       `json:"entry_type"`
	Description  *string       `json:"description"`
	TargetStatus string        `json:"target_status"`
	Lines        []lineRequest `json:"lines" validate:"omitempty,min=1,dive"`
}

type voidRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func toLineInputs(in []lineRequest) ([]LineInput, error) {
	out := make([]LineInput, 0, len(in))
	for _, line := range in {
		debit, err := parseAmount(line.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := parseAmount(line.Credit)
		if err != nil {
			return nil, err
		}
		out = append(out, LineInput{
			AccountID:   line.AccountID,
			Debit:       debit,
			Credit:      credit,
			Description: line.Description,
			LineNumber:  line.LineNumber,
		})
	}
	return out, nil
}

func parseTargetStatus(raw string) (EntryStatus, error) {
	if raw == "" {
		return StatusDraft, nil
	}
	status, err := ParseEntryStatus(raw)
	if err != nil {
		return "", accshared.ErrInvalidTargetStatus
	}
	return status, nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry_date")
		return
	}
	targetStatus, err := parseTargetStatus(req.TargetStatus)
	if err != nil {
		accshared.RespondError(w, err)
		return
	}
	lines, err := toLineInputs(req.Lines)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid line amount")
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" {
		if err := h.idem.CheckAndInsert(r.Context(), idemKey, "journals"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
				return
			}
			h.logger.Error("idempotency check", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
	}

	actorID, _ := shared.ActorFromContext(r.Context())
	entry, err := h.service.CreateEntry(r.Context(), CreateInput{
		CompanyID:    req.CompanyID,
		EntryDate:    entryDate,
		EntryType:    req.EntryType,
		Description:  req.Description,
		TargetStatus: targetStatus,
		Lines:        lines,
		CreatedBy:    actorID,
	})
	if err != nil {
		if idemKey != "" {
			// the request failed, the key must not block a corrected retry
			_ = h.idem.Delete(r.Context(), idemKey)
		}
		h.logger.Error("create entry", slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	entry, err := h.service.GetEntry(r.Context(), id)
	if err != nil {
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id query parameter required")
		return
	}
	entries, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list entries", slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	targetStatus := EntryStatus("")
	if req.TargetStatus != "" {
		parsed, err := parseTargetStatus(req.TargetStatus)
		if err != nil {
			accshared.RespondError(w, err)
			return
		}
		targetStatus = parsed
	}
	in := UpdateInput{EntryID: id, EntryType: req.EntryType, Description: req.Description, TargetStatus: targetStatus}
	if req.EntryDate != nil {
		entryDate, err := time.Parse("2006-01-02", *req.EntryDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry_date")
			return
		}
		in.EntryDate = &entryDate
	}
	if req.Lines != nil {
		lines, err := toLineInputs(req.Lines)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid line amount")
			return
		}
		in.Lines = lines
	}
	in.ActorID, _ = shared.ActorFromContext(r.Context())

	entry, err := h.service.UpdateEntry(r.Context(), in)
	if err != nil {
		h.logger.Error("update entry", slog.Int64("id", id), slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.ActorFromContext(r.Context())
	entry, err := h.service.PostEntry(r.Context(), id, actorID)
	if err != nil {
		h.logger.Error("post entry", slog.Int64("id", id), slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.ActorFromContext(r.Context())
	if err := h.service.DeleteEntry(r.Context(), id, actorID); err != nil {
		h.logger.Error("delete entry", slog.Int64("id", id), slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RequestVoid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	var req voidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	actorID, _ := shared.ActorFromContext(r.Context())
	entry, err := h.service.RequestVoid(r.Context(), VoidRequestInput{EntryID: id, ActorID: actorID, Reason: req.Reason})
	if err != nil {
		h.logger.Error("request void", slog.Int64("id", id), slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) AuthorizeVoid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.ActorFromContext(r.Context())
	entry, err := h.service.AuthorizeVoid(r.Context(), id, actorID)
	if err != nil {
		h.logger.Error("authorize void", slog.Int64("id", id), slog.Any("error", err))
		accshared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry id")
		return 0, false
	}
	return id, true
}

type lineResponse struct {
	ID          int64  `json:"id"`
	AccountID   int64  `json:"account_id"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Description string `json:"description,omitempty"`
	LineNumber  int32  `json:"line_number"`
}

type entryResponse struct {
	ID               int64          `json:"id"`
	CompanyID        int64          `json:"company_id"`
	EntryDate        string         `json:"entry_date"`
	EntryType        string         `json:"entry_type"`
	Description      string         `json:"description,omitempty"`
	Status           string         `json:"status"`
	SequenceNumber   *int64         `json:"sequence_number"`
	TypeNumber       *int64         `json:"type_number"`
	EntryNumber      *string        `json:"entry_number"`
	CreatedBy        int64          `json:"created_by"`
	VoidReason       *string        `json:"void_reason,omitempty"`
	VoidRequestedBy  *int64         `json:"void_requested_by,omitempty"`
	VoidRequestedAt  *time.Time     `json:"void_requested_at,omitempty"`
	VoidAuthorizedBy *int64         `json:"void_authorized_by,omitempty"`
	VoidAuthorizedAt *time.Time     `json:"void_authorized_at,omitempty"`
	Lines            []lineResponse `json:"lines"`
}

func toEntryResponse(e JournalEntry) entryResponse {
	lines := make([]lineResponse, 0, len(e.Lines))
	for _, line := range e.Lines {
		lines = append(lines, lineResponse{
			ID:          line.ID,
			AccountID:   line.AccountID,
			Debit:       line.Debit.StringFixed(2),
			Credit:      line.Credit.StringFixed(2),
			Description: line.Description,
			LineNumber:  line.LineNumber,
		})
	}
	return entryResponse{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		EntryDate:        e.EntryDate.Format("2006-01-02"),
		EntryType:        e.EntryType,
		Description:      e.Description,
		Status:           string(e.Status),
		SequenceNumber:   e.SequenceNumber,
		TypeNumber:       e.TypeNumber,
		EntryNumber:      e.EntryNumber,
		CreatedBy:        e.CreatedBy,
		VoidReason:       e.VoidReason,
		VoidRequestedBy:  e.VoidRequestedBy,
		VoidRequestedAt:  e.VoidRequestedAt,
		VoidAuthorizedBy: e.VoidAuthorizedBy,
		VoidAuthorizedAt: e.VoidAuthorizedAt,
		Lines:            lines,
	}
}
