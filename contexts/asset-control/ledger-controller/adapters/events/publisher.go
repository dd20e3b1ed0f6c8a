package events

import (
	"context"
	"log/slog"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// LogPublisher writes controller events to the structured log. The worker
// uses it as the audit sink for everything delivered on the event bus.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p LogPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.logger.Info("controller event published",
		"event", "ledger_controller_event_published",
		"module", application.ModuleName,
		"layer", "adapter",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

var _ ports.EventPublisher = LogPublisher{}
