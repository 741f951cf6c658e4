package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/models"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

type mailboxRepository struct {
	db *gorm.DB
}

func NewMailboxRepository(db *gorm.DB) interfaces.MailboxRegistry {
	return &mailboxRepository{db: db}
}

func (r *mailboxRepository) SaveMailbox(ctx context.Context, mailbox *models.Mailbox) (*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.SaveMailbox")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, mailbox.ChatID)

	// (chat_id, address) is unique; an existing row wins and the insert is a
	// no-op returning the persisted handle.
	var existing models.Mailbox
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND address = ?", mailbox.ChatID, mailbox.Address).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to look up mailbox")
	}

	if err := r.db.WithContext(ctx).Create(mailbox).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to save mailbox")
	}
	return mailbox, nil
}

func (r *mailboxRepository) GetMailbox(ctx context.Context, chatID int64, mailboxID string) (*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.GetMailbox")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)
	tracing.TagMailboxID(span, mailboxID)

	var mailbox models.Mailbox
	err := r.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", mailboxID, chatID).
		First(&mailbox).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, er.ErrMailboxNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &mailbox, nil
}

func (r *mailboxRepository) ListMailboxes(ctx context.Context, chatID int64) ([]*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.ListMailboxes")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)

	var mailboxes []*models.Mailbox
	result := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Find(&mailboxes)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, result.Error
	}
	return mailboxes, nil
}

func (r *mailboxRepository) DeleteMailbox(ctx context.Context, chatID int64, mailboxID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.DeleteMailbox")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)
	tracing.TagMailboxID(span, mailboxID)

	// Row removal and selection cleanup must land together.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND chat_id = ?", mailboxID, chatID).
			Delete(&models.Mailbox{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return er.ErrMailboxNotFound
		}
		return tx.Where("chat_id = ? AND mailbox_id = ?", chatID, mailboxID).
			Delete(&models.ActiveSelection{}).Error
	})
	if err != nil && !errors.Is(err, er.ErrMailboxNotFound) {
		tracing.TraceErr(span, err)
	}
	return err
}

func (r *mailboxRepository) SetActive(ctx context.Context, chatID int64, mailboxID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.SetActive")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)
	tracing.TagMailboxID(span, mailboxID)

	if _, err := r.GetMailbox(ctx, chatID, mailboxID); err != nil {
		return err
	}

	// Try to update first
	result := r.db.WithContext(ctx).
		Model(&models.ActiveSelection{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]interface{}{
			"mailbox_id": mailboxID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return errors.Wrap(result.Error, "failed to update active selection")
	}

	// If no record was updated, create a new one
	if result.RowsAffected == 0 {
		selection := models.ActiveSelection{
			ChatID:    chatID,
			MailboxID: mailboxID,
			UpdatedAt: time.Now(),
		}
		if err := r.db.WithContext(ctx).Create(&selection).Error; err != nil {
			tracing.TraceErr(span, err)
			return errors.Wrap(err, "failed to create active selection")
		}
	}
	return nil
}

func (r *mailboxRepository) GetActive(ctx context.Context, chatID int64) (*models.Mailbox, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.GetActive")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)

	var selection models.ActiveSelection
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		First(&selection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no selection
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	var mailbox models.Mailbox
	err = r.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", selection.MailboxID, chatID).
		First(&mailbox).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// dangling selection, treat as none
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &mailbox, nil
}

func (r *mailboxRepository) Deactivate(ctx context.Context, chatID int64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.Deactivate")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagChatID(span, chatID)

	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Delete(&models.ActiveSelection{}).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to clear active selection")
	}
	return nil
}

func (r *mailboxRepository) ListActiveSelections(ctx context.Context) ([]*models.ActiveSelection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxRepository.ListActiveSelections")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var selections []*models.ActiveSelection
	if err := r.db.WithContext(ctx).Find(&selections).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to list active selections")
	}
	return selections, nil
}
