package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/quotedesk/internal/document"
	"github.com/odyssey-erp/quotedesk/internal/quotations"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// QuotationSource loads a stored quotation without an actor check.
type QuotationSource interface {
	Get(ctx context.Context, id int64) (*quotations.Quotation, error)
}

// QuotationRenderer produces the mail body and attachment together.
type QuotationRenderer interface {
	Render(ctx context.Context, q *quotations.Quotation) (document.Bundle, error)
}

// QuotationEmailHandler renders a quotation and mails it.
type QuotationEmailHandler struct {
	quotes   QuotationSource
	renderer QuotationRenderer
	mailer   Mailer
	logger   *slog.Logger
}

// NewQuotationEmailHandler constructs the handler.
func NewQuotationEmailHandler(quotes QuotationSource, renderer QuotationRenderer, mailer Mailer, logger *slog.Logger) *QuotationEmailHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotationEmailHandler{quotes: quotes, renderer: renderer, mailer: mailer, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *QuotationEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload QuotationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	q, err := h.quotes.Get(ctx, payload.QuotationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("quotation email skipped", slog.Int64("quotation_id", payload.QuotationID))
			return fmt.Errorf("quotation %d: %v: %w", payload.QuotationID, err, asynq.SkipRetry)
		}
		return err
	}

	bundle, err := h.renderer.Render(ctx, q)
	if err != nil {
		return fmt.Errorf("render %s: %w", q.QuoteNumber, err)
	}

	msg := Message{
		To:       payload.To,
		Subject:  fmt.Sprintf("Quotation %s from %s", q.QuoteNumber, q.Company.Name),
		HTMLBody: string(bundle.HTML),
		Attachments: []Attachment{{
			Name:        q.QuoteNumber + ".pdf",
			ContentType: "application/pdf",
			Data:        bundle.PDF,
		}},
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", q.QuoteNumber, err)
	}

	h.logger.Info("quotation emailed",
		slog.String("quote_number", q.QuoteNumber),
		slog.String("to", payload.To),
		slog.Int64("requested_by", payload.RequestedBy))
	return nil
}
