package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/ports"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, event ports.OutboxEvent) error {
	rec := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      string(event.Payload),
		CreatedAt:    event.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *outboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []outboxModel
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ports.OutboxRecord{
			OutboxID:     rec.OutboxID,
			EventType:    rec.EventType,
			PartitionKey: rec.PartitionKey,
			Payload:      []byte(rec.Payload),
			RetryCount:   rec.RetryCount,
			PublishedAt:  rec.PublishedAt,
			LastError:    rec.LastError,
			FirstSeenAt:  rec.CreatedAt,
		})
	}
	return out, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Update("published_at", at).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"last_error":    errMsg,
			"last_error_at": at,
		}).Error
}
