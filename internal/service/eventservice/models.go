package eventservice

import (
	"time"
)

type BaseEvent struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Version       string            `json:"version"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Source        string            `json:"source,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// ---- Ejecución del pipeline ----
type PipelineEvent struct {
	BaseEvent
	RunID      string       `json:"run_id"`
	Kind       string       `json:"kind"`
	Status     string       `json:"status"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Tables     []TableCount `json:"tables,omitempty"`
}

type TableCount struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

// ---- Órdenes para el worker ----
type PipelineCommand struct {
	BaseEvent
	RequestedBy string `json:"requested_by,omitempty"`
}
