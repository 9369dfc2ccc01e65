package repositories

import (
	"context"
	"fmt"

	"github.com/quadrahub/arena-system/models"
)

const collectionNotifications = "notifications"

// NotificationRepository is the notification sink. Writes are fire-and-forget
// from the caller's point of view: admission logs a failed upsert and moves on.
type NotificationRepository interface {
	Upsert(ctx context.Context, n *models.Notification) error
}

type storeNotificationRepository struct {
	store RecordStore
}

func NewStoreNotificationRepository(store RecordStore) NotificationRepository {
	return &storeNotificationRepository{store: store}
}

func (r *storeNotificationRepository) Upsert(ctx context.Context, n *models.Notification) error {
	rec, err := marshalRecord(n.ID, n)
	if err != nil {
		return err
	}
	partition := n.ArenaID
	if partition == "" {
		partition = GlobalPartition
	}
	if err := r.store.Upsert(ctx, collectionNotifications, partition, []Record{rec}); err != nil {
		return fmt.Errorf("failed to upsert notification %s: %w", n.ID, err)
	}
	return nil
}
