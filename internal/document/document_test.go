package document

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/quotedesk/internal/quotations"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func sampleQuotation() *quotations.Quotation {
	parent := int64(11)
	return &quotations.Quotation{
		ID:          1,
		QuoteNumber: "QT-2403-0001",
		Customer:    quotations.CustomerSnapshot{Name: "Meera Traders", Address: strPtr("12 MG Road")},
		Items: []quotations.LineItem{
			{
				CatalogID: 11, Name: "Cooling Tower", ModelNumber: strPtr("CT-200"), Kind: quotations.KindProduct,
				Quantity: 2, Price: dec("1000"), DiscountedPrice: dec("900"), Total: dec("1800"),
			},
			{
				CatalogID: 4, Name: "Fan Blade", Kind: quotations.KindSpare, ParentProductID: &parent,
				Quantity: 1, Price: dec("500"), DiscountedPrice: dec("500"), Total: dec("500"),
			},
		},
		Subtotal:  dec("2300"),
		TaxRate:   dec("0.1800"),
		GST:       dec("414"),
		Total:     dec("2714"),
		Status:    quotations.StatusPending,
		Company:   quotations.CompanySnapshot{Name: "Aqua Systems", GSTIN: "29ABCDE1234F1Z5", BankName: "State Bank", IFSC: "SBIN0000001"},
		CreatedAt: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "05.03.2024", Date(ts, nil))

	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "06.03.2024", Date(ts, ist))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", Money(decimal.Zero))
	assert.Equal(t, "2,950.00", Money(dec("2950")))
	assert.Equal(t, "87.49", Money(dec("87.49")))
	assert.Equal(t, "1,234.50", Money(dec("1234.5")))
	assert.Equal(t, "-1,234.50", Money(dec("-1234.5")))
	assert.Equal(t, "0.01", Money(dec("0.005")))
	// Beyond float64 precision the paise survive.
	assert.True(t, strings.HasSuffix(Money(dec("123456789012345678.91")), ".91"))
}

func TestBuildDerivesPrintFields(t *testing.T) {
	p := Build(sampleQuotation(), dec("0.18"), nil)

	assert.Equal(t, "QT-2403-0001", p.QuoteNumber)
	assert.Equal(t, "05.03.2024", p.Date)
	assert.Equal(t, "GST (18%)", p.TaxLabel)
	assert.Equal(t, "Two Thousand Seven Hundred Fourteen Rupees", p.AmountInWords)
	require.Len(t, p.Lines, 2)

	assert.Equal(t, 1, p.Lines[0].Index)
	assert.Equal(t, "CT-200", p.Lines[0].ModelNumber)
	assert.Equal(t, "10%", p.Lines[0].DiscountPercent)
	assert.False(t, p.Lines[0].Spare)

	assert.True(t, p.Lines[1].Spare)
	assert.Equal(t, "Cooling Tower", p.Lines[1].ParentName)
	assert.Equal(t, "0%", p.Lines[1].DiscountPercent)
}

func TestBuildLabelsTaxAtStoredRate(t *testing.T) {
	// The configured rate moved to 12% after the quotation was saved at 18%.
	p := Build(sampleQuotation(), dec("0.12"), nil)
	assert.Equal(t, "GST (18%)", p.TaxLabel)

	legacy := sampleQuotation()
	legacy.TaxRate = decimal.Zero
	p = Build(legacy, dec("0.12"), nil)
	assert.Equal(t, "GST (12%)", p.TaxLabel)
}

func TestBuildZeroTotal(t *testing.T) {
	q := sampleQuotation()
	q.Items = nil
	q.Subtotal, q.GST, q.Total = decimal.Zero, decimal.Zero, decimal.Zero

	p := Build(q, dec("0.18"), nil)
	assert.Equal(t, "Zero", p.AmountInWords)
	assert.Empty(t, p.Lines)
}

type countingConverter struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (c *countingConverter) RenderHTML(ctx context.Context, html []byte) ([]byte, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return append([]byte("%PDF:"), html[:15]...), nil
}

func newRenderer(t *testing.T, conv PDFConverter) *Renderer {
	t.Helper()
	r, err := NewRenderer(conv, Config{TaxRate: dec("0.18")})
	require.NoError(t, err)
	return r
}

func TestHTMLIncludesQuotationDetails(t *testing.T) {
	r := newRenderer(t, &countingConverter{})

	out, err := r.HTML(context.Background(), sampleQuotation())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "QT-2403-0001")
	assert.Contains(t, html, "05.03.2024")
	assert.Contains(t, html, "Meera Traders")
	assert.Contains(t, html, "Spare for Cooling Tower")
	assert.Contains(t, html, "2,714.00")
	assert.Contains(t, html, "Two Thousand Seven Hundred Fourteen Rupees")
	assert.Contains(t, html, "SBIN0000001")
}

func TestHTMLEscapesCustomerInput(t *testing.T) {
	r := newRenderer(t, &countingConverter{})
	q := sampleQuotation()
	q.Customer.Name = "<script>alert(1)</script>"

	out, err := r.HTML(context.Background(), q)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>alert(1)</script>")
}

func TestPDFSharesConcurrentRenders(t *testing.T) {
	conv := &countingConverter{release: make(chan struct{})}
	r := newRenderer(t, conv)
	q := sampleQuotation()

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pdf, err := r.PDF(context.Background(), q)
			assert.NoError(t, err)
			results[i] = pdf
		}(i)
	}

	require.Eventually(t, func() bool { return conv.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(conv.release)
	wg.Wait()

	assert.Equal(t, int32(1), conv.calls.Load())
	for _, pdf := range results {
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF:"))
	}
}

func TestPDFRerendersAfterUpdate(t *testing.T) {
	conv := &countingConverter{}
	r := newRenderer(t, conv)
	q := sampleQuotation()

	_, err := r.PDF(context.Background(), q)
	require.NoError(t, err)
	q.UpdatedAt = q.UpdatedAt.Add(time.Minute)
	_, err = r.PDF(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, int32(2), conv.calls.Load())
}

func TestRenderBundle(t *testing.T) {
	r := newRenderer(t, &countingConverter{})

	bundle, err := r.Render(context.Background(), sampleQuotation())
	require.NoError(t, err)
	assert.Contains(t, string(bundle.HTML), "QT-2403-0001")
	assert.True(t, strings.HasPrefix(string(bundle.PDF), "%PDF:"))
}

func TestRenderBundlePropagatesConverterFailure(t *testing.T) {
	boom := errors.New("gotenberg down")
	r := newRenderer(t, &countingConverter{err: boom})

	_, err := r.Render(context.Background(), sampleQuotation())
	assert.ErrorIs(t, err, boom)
}
