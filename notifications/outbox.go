package notifications

import (
	"fmt"

	"github.com/anjiri1684/spacehub/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Enqueue records a notification inside the caller's transaction. A row with
// the same dedup key is left as is, so replays never send twice.
func Enqueue(tx *gorm.DB, n models.Notification) error {
	if n.DedupKey == "" {
		return fmt.Errorf("notification %q has no dedup key", n.Event)
	}
	n.Status = models.NotificationPending
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedup_key"}},
		DoNothing: true,
	}).Create(&n).Error
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", n.Event, err)
	}
	return nil
}
