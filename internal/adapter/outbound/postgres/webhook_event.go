package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// webhookEventAdapter implements outbound.WebhookEventDatabasePort.
type webhookEventAdapter struct {
	db *gorm.DB
}

// NewWebhookEventAdapter creates a new webhook event database adapter.
func NewWebhookEventAdapter(db *gorm.DB) outbound.WebhookEventDatabasePort {
	return &webhookEventAdapter{db: db}
}

// Create inserts the event, or loads the stored row when a retry of a
// failed delivery arrives with the same provider and event ID.
func (a *webhookEventAdapter) Create(ctx context.Context, event *model.WebhookEvent) error {
	db := conn(ctx, a.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "event_id"}},
		DoNothing: true,
	}).Create(event).Error
	if err != nil {
		return fmt.Errorf("create webhook event: %w", err)
	}

	err = db.
		Where("provider = ? AND event_id = ?", event.Provider, event.EventID).
		First(event).Error
	if err != nil {
		return fmt.Errorf("load webhook event: %w", err)
	}
	return nil
}

func (a *webhookEventAdapter) Exists(ctx context.Context, provider, eventID string) (bool, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.WebhookEvent{}).
		Where("provider = ? AND event_id = ? AND processed = ? AND error IS NULL", provider, eventID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check webhook event exists: %w", err)
	}
	return count > 0, nil
}

func (a *webhookEventAdapter) MarkProcessed(ctx context.Context, id uuid.UUID, processErr error) error {
	updates := map[string]any{
		"processed":    true,
		"processed_at": time.Now(),
		"error":        gorm.Expr("NULL"),
	}
	if processErr != nil {
		updates["error"] = processErr.Error()
	}
	err := conn(ctx, a.db).
		Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}

var _ outbound.WebhookEventDatabasePort = (*webhookEventAdapter)(nil)
