package audit

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Writer persists audit events into audit_logs.
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter returns a new Writer.
func NewWriter(pool *pgxpool.Pool) *Writer {
	return &Writer{pool: pool}
}

// Write inserts the event row.
func (w *Writer) Write(ctx context.Context, ev Event) error {
	metaJSON, err := json.Marshal(ev.Meta)
	if err != nil {
		return err
	}
	_, err = w.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`,
		ev.ActorID, ev.Action, ev.Entity, ev.EntityID, metaJSON, ev.At)
	return err
}

// TaskHandler returns the asynq handler that drains the audit queue.
func (w *Writer) TaskHandler() asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ev, err := DecodeEvent(task.Payload())
		if err != nil {
			// Malformed payloads are dropped rather than retried forever.
			return nil
		}
		return w.Write(ctx, ev)
	}
}
