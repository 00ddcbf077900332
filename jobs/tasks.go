package jobs

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskQuotationEmail mails a rendered quotation to a recipient.
	TaskQuotationEmail = "quotation:email"
	// TaskIdempotencyPurge drops expired idempotency keys.
	TaskIdempotencyPurge = "idempotency:purge"
)

// QuotationEmailPayload identifies the quotation to deliver.
type QuotationEmailPayload struct {
	QuotationID int64  `json:"quotation_id"`
	To          string `json:"to"`
	RequestedBy int64  `json:"requested_by"`
}

// NewQuotationEmailTask constructs an Asynq task for quotation delivery.
func NewQuotationEmailTask(payload QuotationEmailPayload) (*asynq.Task, error) {
	if payload.QuotationID <= 0 || payload.To == "" {
		return nil, errors.New("jobs: quotation id and recipient required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuotationEmail, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	), nil
}

// IdempotencyPurgePayload carries the retention window.
type IdempotencyPurgePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewIdempotencyPurgeTask constructs the periodic purge task.
func NewIdempotencyPurgeTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(IdempotencyPurgePayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyPurge, data, asynq.Queue(QueueDefault)), nil
}
