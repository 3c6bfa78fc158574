package worker

// alert_worker.go
// Processes low-stock jobs from QueueLowStock.
// Sends warning emails via SMTP behind the circuit breaker, with
// retry-and-requeue up to MaxAlertAttempts before landing in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pedroaraujox/Viza-Stock/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const MaxAlertAttempts = 3

// LowStockPayload describes a single product that fell to or below its
// minimum after a stock movement.
type LowStockPayload struct {
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	MinQuantity string `json:"min_quantity"`
	Unit        string `json:"unit"`
}

// LowStockDigestPayload carries the periodic sweep result.
type LowStockDigestPayload struct {
	Products []LowStockPayload `json:"products"`
}

// AlertWorker sends low-stock warnings to the configured recipient.
type AlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
	to     string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, to string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, rdb: rdb, to: to}
}

// Process renders and sends the alert email for a job.
// On failure the job is requeued with an incremented attempt counter;
// after MaxAlertAttempts it goes to the DLQ for manual inspection.
func (w *AlertWorker) Process(ctx context.Context, job Job) {
	if w.to == "" {
		log.Warn().Msg("alert_worker: no recipient configured, discarding alert")
		return
	}

	subject, body, err := renderAlert(job)
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("alert_worker: invalid payload")
		return
	}

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendAlert(w.to, subject, body)
	})
	if sendErr == nil {
		log.Info().Str("to", w.to).Str("type", job.Type).Msg("alert_worker: alert sent")
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAlertAttempts {
		SendToDLQ(ctx, w.rdb, QueueLowStock, job.Type, job.Payload,
			fmt.Sprintf("max attempts (%d) exceeded: %v", MaxAlertAttempts, sendErr), job.Attempts)
		return
	}

	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("alert_worker: failed to re-encode job")
		return
	}
	if err := w.rdb.LPush(ctx, QueueLowStock, encoded).Err(); err != nil {
		log.Error().Err(err).Msg("alert_worker: failed to requeue job")
		return
	}
	log.Warn().
		Err(sendErr).
		Int("attempts", job.Attempts).
		Str("type", job.Type).
		Msg("alert_worker: send failed, job requeued")
}

func renderAlert(job Job) (subject, body string, err error) {
	switch job.Type {
	case JobTypeLowStockAlert:
		var p LowStockPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Low stock: %s (%s)", p.ProductName, p.ProductCode)
		body = alertLine(p) + "\nPlease schedule a replenishment.\n"
		return subject, body, nil
	case JobTypeLowStockDigest:
		var p LowStockDigestPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Low stock digest: %d product(s) below minimum", len(p.Products))
		var b strings.Builder
		for _, line := range p.Products {
			b.WriteString(alertLine(line))
			b.WriteByte('\n')
		}
		return subject, b.String(), nil
	default:
		return "", "", fmt.Errorf("unknown job type %q", job.Type)
	}
}

func alertLine(p LowStockPayload) string {
	return fmt.Sprintf("Product %s (%s): %s %s on hand, minimum is %s %s",
		p.ProductCode, p.ProductName, p.Quantity, p.Unit, p.MinQuantity, p.Unit)
}
