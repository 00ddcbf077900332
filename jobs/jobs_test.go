package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/quotedesk/internal/document"
	"github.com/odyssey-erp/quotedesk/internal/quotations"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubQuotes map[int64]*quotations.Quotation

func (s stubQuotes) Get(_ context.Context, id int64) (*quotations.Quotation, error) {
	q, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("quotations: %w", shared.ErrNotFound)
	}
	return q, nil
}

type stubRenderer struct {
	err error
}

func (s stubRenderer) Render(_ context.Context, q *quotations.Quotation) (document.Bundle, error) {
	if s.err != nil {
		return document.Bundle{}, s.err
	}
	return document.Bundle{HTML: []byte("<p>" + q.QuoteNumber + "</p>"), PDF: []byte("%PDF")}, nil
}

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type countingJobs struct {
	tasks      []string
	ok, failed int
}

func (c *countingJobs) JobFinished(task string, _ time.Duration, err error) {
	c.tasks = append(c.tasks, task)
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func emailTask(t *testing.T, id int64) *asynq.Task {
	t.Helper()
	task, err := NewQuotationEmailTask(QuotationEmailPayload{QuotationID: id, To: "buyer@example.com", RequestedBy: 3})
	require.NoError(t, err)
	return task
}

func TestQuotationEmailSendsPDF(t *testing.T) {
	quotes := stubQuotes{1: {ID: 1, QuoteNumber: "QT-2403-0001", Company: quotations.CompanySnapshot{Name: "Aqua Systems"}}}
	mailer := &recordingMailer{}
	h := NewQuotationEmailHandler(quotes, stubRenderer{}, mailer, discardLogger())

	require.NoError(t, h.ProcessTask(context.Background(), emailTask(t, 1)))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "buyer@example.com", msg.To)
	assert.Equal(t, "Quotation QT-2403-0001 from Aqua Systems", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "QT-2403-0001")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "QT-2403-0001.pdf", msg.Attachments[0].Name)
	assert.Equal(t, []byte("%PDF"), msg.Attachments[0].Data)
}

func TestQuotationEmailSkipsRetryForMissingQuotation(t *testing.T) {
	h := NewQuotationEmailHandler(stubQuotes{}, stubRenderer{}, &recordingMailer{}, discardLogger())

	err := h.ProcessTask(context.Background(), emailTask(t, 99))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestQuotationEmailRetriesRenderAndSendFailures(t *testing.T) {
	quotes := stubQuotes{1: {ID: 1, QuoteNumber: "QT-2403-0001"}}

	renderErr := errors.New("gotenberg down")
	h := NewQuotationEmailHandler(quotes, stubRenderer{err: renderErr}, &recordingMailer{}, discardLogger())
	err := h.ProcessTask(context.Background(), emailTask(t, 1))
	assert.ErrorIs(t, err, renderErr)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	smtpErr := errors.New("relay refused")
	h = NewQuotationEmailHandler(quotes, stubRenderer{}, &recordingMailer{err: smtpErr}, discardLogger())
	err = h.ProcessTask(context.Background(), emailTask(t, 1))
	assert.ErrorIs(t, err, smtpErr)
}

func TestQuotationEmailRejectsBadPayload(t *testing.T) {
	h := NewQuotationEmailHandler(stubQuotes{}, stubRenderer{}, &recordingMailer{}, discardLogger())
	err := h.ProcessTask(context.Background(), asynq.NewTask(TaskQuotationEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewQuotationEmailTaskValidates(t *testing.T) {
	_, err := NewQuotationEmailTask(QuotationEmailPayload{QuotationID: 1})
	assert.Error(t, err)

	task, err := NewQuotationEmailTask(QuotationEmailPayload{QuotationID: 7, To: "a@b.co", RequestedBy: 2})
	require.NoError(t, err)
	assert.Equal(t, TaskQuotationEmail, task.Type())

	var payload QuotationEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, int64(7), payload.QuotationID)
}

func TestBuildMessageCarriesAttachment(t *testing.T) {
	gm := buildMessage("sales@aqua.example", Message{
		To:          "buyer@example.com",
		Subject:     "Quotation QT-2403-0001",
		HTMLBody:    "<p>Hello</p>",
		Attachments: []Attachment{{Name: "QT-2403-0001.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}},
	})

	var buf bytes.Buffer
	_, err := gm.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Quotation QT-2403-0001")
	assert.Contains(t, raw, "QT-2403-0001.pdf")
	assert.Contains(t, raw, "application/pdf")
}

type stubCleaner struct {
	got time.Duration
	err error
}

func (s *stubCleaner) Cleanup(_ context.Context, olderThan time.Duration) error {
	s.got = olderThan
	return s.err
}

func TestIdempotencyPurgeUsesRetention(t *testing.T) {
	cleaner := &stubCleaner{}
	task, err := NewIdempotencyPurgeTask(24 * time.Hour)
	require.NoError(t, err)

	require.NoError(t, HandleIdempotencyPurge(cleaner, discardLogger())(context.Background(), task))
	assert.Equal(t, 24*time.Hour, cleaner.got)

	task, err = NewIdempotencyPurgeTask(0)
	require.NoError(t, err)
	require.NoError(t, HandleIdempotencyPurge(cleaner, nil)(context.Background(), task))
	assert.Equal(t, DefaultIdempotencyRetention, cleaner.got)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func healthStatus(t *testing.T, inspector QueueInspector) (*httptest.ResponseRecorder, queueHealth) {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(inspector, discardLogger()).MountRoutes)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	var body queueHealth
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func TestJobsHealth(t *testing.T) {
	rr, body := healthStatus(t, stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Retry: 1}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, body.Pending)
	assert.Equal(t, 1, body.Retry)

	rr, body = healthStatus(t, stubInspector{err: fmt.Errorf("asynq: %w", asynq.ErrQueueNotFound)})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, body.Pending)

	rr, _ = healthStatus(t, stubInspector{err: errors.New("redis down")})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestObserveMiddlewareReportsOutcome(t *testing.T) {
	observer := &countingJobs{}
	failing := asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return errors.New("boom") })
	passing := asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return nil })

	task := asynq.NewTask(TaskIdempotencyPurge, nil)
	assert.Error(t, observe(observer)(failing).ProcessTask(context.Background(), task))
	assert.NoError(t, observe(observer)(passing).ProcessTask(context.Background(), task))

	assert.Equal(t, 1, observer.ok)
	assert.Equal(t, 1, observer.failed)
	assert.Equal(t, []string{TaskIdempotencyPurge, TaskIdempotencyPurge}, observer.tasks)
}
