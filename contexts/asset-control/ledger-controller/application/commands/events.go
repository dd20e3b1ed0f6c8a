package commands

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

const (
	EventAssetInitialized   = "asset.initialized"
	EventControllerPaused   = "controller.paused"
	EventControllerUnpaused = "controller.unpaused"

	sourceService = "ledger-controller"
)

// appendEvent writes one envelope to the outbox of the current unit of work.
// Emission is skipped when no ID generator is wired.
func appendEvent(
	ctx context.Context,
	tx ports.StateTx,
	idGen ports.IDGenerator,
	eventType string,
	mint valueobjects.Identity,
	occurredAt time.Time,
	data map[string]any,
) error {
	if idGen == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "mint",
		PartitionKey:     mint.String(),
		Data:             payload,
	})
}

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
