package document

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/quotedesk/internal/pricing"
	"github.com/odyssey-erp/quotedesk/internal/quotations"
	"github.com/odyssey-erp/quotedesk/web"
)

const templateName = "quotation.html"

// PDFConverter turns a complete HTML document into a PDF.
type PDFConverter interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Config tunes the renderer.
type Config struct {
	TaxRate  decimal.Decimal
	Location *time.Location
	Logger   *slog.Logger
}

// Renderer produces quotation documents from the embedded template.
type Renderer struct {
	converter PDFConverter
	tmpl      *template.Template
	taxRate   decimal.Decimal
	loc       *time.Location
	logger    *slog.Logger
	renders   singleflight.Group
}

// Bundle holds both printable forms of a quotation.
type Bundle struct {
	HTML []byte
	PDF  []byte
}

// NewRenderer parses the quotation template.
func NewRenderer(converter PDFConverter, cfg Config) (*Renderer, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("document: parse template: %w", err)
	}
	if !cfg.TaxRate.IsPositive() {
		cfg.TaxRate = pricing.DefaultTaxRate
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		converter: converter,
		tmpl:      tmpl,
		taxRate:   cfg.TaxRate,
		loc:       cfg.Location,
		logger:    logger,
	}, nil
}

// HTML renders the print view of q.
func (r *Renderer) HTML(_ context.Context, q *quotations.Quotation) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, templateName, Build(q, r.taxRate, r.loc)); err != nil {
		return nil, fmt.Errorf("document: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders q through the converter. Concurrent requests for the same
// revision of a quotation share one conversion.
func (r *Renderer) PDF(ctx context.Context, q *quotations.Quotation) ([]byte, error) {
	html, err := r.HTML(ctx, q)
	if err != nil {
		return nil, err
	}
	key := strconv.FormatInt(q.ID, 10) + ":" + strconv.FormatInt(q.UpdatedAt.UnixNano(), 10)
	ch := r.renders.DoChan(key, func() (interface{}, error) {
		start := time.Now()
		pdf, err := r.converter.RenderHTML(context.WithoutCancel(ctx), html)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("quotation pdf rendered",
			slog.String("quote_number", q.QuoteNumber),
			slog.Duration("took", time.Since(start)))
		return pdf, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Render produces the HTML and PDF forms side by side, as the mail job
// needs both.
func (r *Renderer) Render(ctx context.Context, q *quotations.Quotation) (Bundle, error) {
	var out Bundle
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		html, err := r.HTML(ctx, q)
		if err != nil {
			return err
		}
		out.HTML = html
		return nil
	})
	g.Go(func() error {
		pdf, err := r.PDF(ctx, q)
		if err != nil {
			return err
		}
		out.PDF = pdf
		return nil
	})
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return out, nil
}

var _ quotations.DocumentRenderer = (*Renderer)(nil)
