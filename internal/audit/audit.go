// Package audit provides a fire-and-forget sink for operation events.
// Events are queued through asynq and written to audit_logs by the worker.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeRecord identifies the asynq task carrying an audit event.
const TaskTypeRecord = "audit:record"

// Event is a single audit record.
type Event struct {
	ActorID  int64          `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// Recorder accepts events. Implementations must never block the caller
// on sink failures; a lost audit event is logged, not surfaced.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// AsynqRecorder enqueues audit events onto the background queue.
type AsynqRecorder struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewAsynqRecorder constructs a queue-backed recorder.
func NewAsynqRecorder(client *asynq.Client, logger *slog.Logger) *AsynqRecorder {
	return &AsynqRecorder{client: client, logger: logger}
}

// Record enqueues the event. Errors are swallowed after logging.
func (r *AsynqRecorder) Record(ctx context.Context, ev Event) {
	if r == nil || r.client == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("audit marshal", slog.Any("error", err))
		}
		return
	}
	task := asynq.NewTask(TaskTypeRecord, payload)
	if _, err := r.client.EnqueueContext(ctx, task); err != nil {
		if r.logger != nil {
			r.logger.Warn("audit enqueue", slog.String("action", ev.Action), slog.Any("error", err))
		}
	}
}

// NopRecorder discards every event.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Event) {}

var (
	_ Recorder = (*AsynqRecorder)(nil)
	_ Recorder = NopRecorder{}
)

// DecodeEvent parses a queued task payload back into an Event.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, err
	}
	if ev.Action == "" || ev.Entity == "" || ev.EntityID == "" {
		return Event{}, errors.New("audit: event requires action/entity/entity_id")
	}
	return ev, nil
}
