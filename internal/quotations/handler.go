package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/odyssey-erp/quotedesk/internal/platform/httpx"
	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// IdempotencyHeader carries the client's submission key on create.
const IdempotencyHeader = "Idempotency-Key"

// DocumentRenderer produces the printable forms of a quotation.
type DocumentRenderer interface {
	PDF(ctx context.Context, q *Quotation) ([]byte, error)
	HTML(ctx context.Context, q *Quotation) ([]byte, error)
}

// EmailQueue schedules delivery of a quotation PDF.
type EmailQueue interface {
	EnqueueQuotationEmail(ctx context.Context, quotationID int64, to string, requestedBy int64) error
}

type EmailRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer DocumentRenderer
	emails   EmailQueue
	rbac     rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, renderer DocumentRenderer, emails EmailQueue, rbac rbac.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		renderer: renderer,
		emails:   emails,
		rbac:     rbac,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := rbac.ActorFrom(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filters, err := parseListFilters(r, actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	quotations, total, err := h.service.List(r.Context(), actor, filters)
	if err != nil {
		h.logger.Error("list quotations failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       quotations,
		"pagination": shared.NewPagination(filters.Page, filters.PerPage, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":        q,
		"transitions": AllowedTransitions(q.Status),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := rbac.ActorFrom(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req SaveQuotationRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Create(r.Context(), actor, req, strings.TrimSpace(r.Header.Get(IdempotencyHeader)))
	if err != nil {
		h.logger.Warn("create quotation failed", slog.Int64("user_id", actor.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("quotation created", slog.String("quote_number", q.QuoteNumber), slog.Int64("user_id", actor.ID))
	w.Header().Set("Location", fmt.Sprintf("/quotations/%d", q.ID))
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var req SaveQuotationRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Replace(r.Context(), actor, id, req)
	if err != nil {
		h.logger.Warn("replace quotation failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Approve(r.Context(), actor, id)
	if err != nil {
		h.logger.Warn("approve quotation failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var req RejectRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	q, err := h.service.Reject(r.Context(), actor, id, req.Reason)
	if err != nil {
		h.logger.Warn("reject quotation failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.logger.Warn("delete quotation failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.renderer.PDF(r.Context(), q)
	if err != nil {
		h.logger.Error("render quotation pdf failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Renderer Unavailable", "could not render the document")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", q.QuoteNumber+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	html, err := h.renderer.HTML(r.Context(), q)
	if err != nil {
		h.logger.Error("render quotation html failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (h *Handler) Email(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var req EmailRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	q, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	to := req.To
	if to == "" && q.Customer.Email != nil {
		to = *q.Customer.Email
	}
	if to == "" {
		httpx.RespondError(w, fmt.Errorf("%w: no recipient address", shared.ErrValidation))
		return
	}
	if err := h.emails.EnqueueQuotationEmail(r.Context(), q.ID, to, actor.ID); err != nil {
		h.logger.Error("enqueue quotation email failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"queued": true, "to": to})
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	actor, err := rbac.ActorFrom(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req PreviewRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	preview, err := h.service.Preview(r.Context(), actor, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, preview)
}

func (h *Handler) actorAndID(w http.ResponseWriter, r *http.Request) (shared.Actor, int64, bool) {
	actor, err := rbac.ActorFrom(r)
	if err != nil {
		httpx.RespondError(w, err)
		return shared.Actor{}, 0, false
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return shared.Actor{}, 0, false
	}
	return actor, id, true
}

func parseListFilters(r *http.Request, actor shared.Actor) (ListFilters, error) {
	q := r.URL.Query()
	page, perPage := shared.PageFromQuery(q)
	filters := ListFilters{
		Status:  Status(q.Get("status")),
		Search:  q.Get("search"),
		Page:    page,
		PerPage: perPage,
	}
	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ListFilters{}, fmt.Errorf("%w: invalid customer_id", shared.ErrValidation)
		}
		filters.CustomerID = id
	}
	if q.Get("mine") == "true" {
		filters.OwnerID = actor.ID
	}
	for key, dst := range map[string]**time.Time{"from": &filters.From, "to": &filters.To} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return ListFilters{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", shared.ErrValidation, key)
		}
		if key == "to" {
			t = t.AddDate(0, 0, 1)
		}
		*dst = &t
	}
	return filters, nil
}
