package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:lowstock"

	JobTypeLowStockAlert  = "lowstock_alert"
	JobTypeLowStockDigest = "lowstock_digest"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLowStockAlert pushes a single-product alert job to Redis.
func (d *Dispatcher) EnqueueLowStockAlert(ctx context.Context, payload LowStockPayload) error {
	return d.enqueue(ctx, QueueLowStock, JobTypeLowStockAlert, payload)
}

// EnqueueLowStockDigest pushes a multi-product digest job to Redis.
func (d *Dispatcher) EnqueueLowStockDigest(ctx context.Context, payload LowStockDigestPayload) error {
	return d.enqueue(ctx, QueueLowStock, JobTypeLowStockDigest, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, alerts *AlertWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, alerts)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, alerts *AlertWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueLowStock).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, result[1], alerts)
		}
	}
}

func processJob(ctx context.Context, raw string, alerts *AlertWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", QueueLowStock).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case JobTypeLowStockAlert, JobTypeLowStockDigest:
		alerts.Process(ctx, job)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type, discarding")
	}
}
