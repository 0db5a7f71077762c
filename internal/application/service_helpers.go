package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data any) {
	occurredAt := s.nowFn()
	envelope := map[string]any{
		"event_id":       uuid.NewString(),
		"event_type":     eventType,
		"occurred_at":    occurredAt.Format(time.RFC3339),
		"source_service": s.cfg.ServiceName,
		"schema_version": "1.0",
		"partition_key":  partitionKey,
		"data":           data,
	}
	payload, _ := json.Marshal(envelope)
	err := s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
		OccurredAt:   occurredAt,
	})
	if err != nil {
		// The outbox is best-effort relative to the committed state change;
		// a lost event must never roll back a settled payment.
		s.logger.WarnContext(ctx, "outbox enqueue failed",
			"module", "application",
			"layer", "application",
			"operation", "enqueue_event",
			"outcome", "failure",
			"event_type", eventType,
			"error", err,
		)
	}
}

func campaignCacheKey(campaignID uuid.UUID) string {
	return "campaign:" + campaignID.String()
}

func creatorSearchCacheKey(req SearchCreatorsRequest) string {
	raw, _ := json.Marshal(req)
	return "creators:search:" + string(raw)
}
