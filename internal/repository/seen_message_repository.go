package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/burnerpost/burnerpost/interfaces"
	"github.com/burnerpost/burnerpost/internal/models"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

type seenMessageRepository struct {
	db *gorm.DB
}

func NewSeenMessageRepository(db *gorm.DB) interfaces.DeliveryLedger {
	return &seenMessageRepository{db: db}
}

func (r *seenMessageRepository) IsDelivered(ctx context.Context, chatID int64, messageID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "seenMessageRepository.IsDelivered")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SeenMessage{}).
		Where("chat_id = ? AND message_id = ?", chatID, messageID).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return false, errors.Wrap(err, "failed to check seen message")
	}
	return count > 0, nil
}

func (r *seenMessageRepository) MarkDelivered(ctx context.Context, chatID int64, messageID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "seenMessageRepository.MarkDelivered")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)

	record := models.SeenMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SeenAt:    time.Now(),
	}
	// Duplicate marks are no-ops, never an error.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "message_id"}},
			DoNothing: true,
		}).
		Create(&record).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to mark message delivered")
	}
	return nil
}

func (r *seenMessageRepository) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "seenMessageRepository.PruneOlderThan")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	cutoff := time.Now().Add(-retention)
	result := r.db.WithContext(ctx).
		Where("seen_at < ?", cutoff).
		Delete(&models.SeenMessage{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return 0, errors.Wrap(result.Error, "failed to prune seen messages")
	}
	return result.RowsAffected, nil
}
