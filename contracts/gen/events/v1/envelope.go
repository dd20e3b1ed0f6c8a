package v1

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidEnvelope is returned by Validate for envelopes missing routing fields.
var ErrInvalidEnvelope = errors.New("event envelope is invalid")

// Envelope is the versioned event envelope written to the outbox and relayed
// to the event bus. Fields must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Validate checks the fields consumers route on.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.EventID) == "" ||
		strings.TrimSpace(e.EventType) == "" ||
		strings.TrimSpace(e.PartitionKey) == "" ||
		e.SchemaVersion <= 0 {
		return ErrInvalidEnvelope
	}
	return nil
}
