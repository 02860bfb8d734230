package notifications

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultBatchSize = 50
	MaxAttempts      = 5
)

// Pusher forwards a delivered notification to live clients.
type Pusher interface {
	Push(recipientID uuid.UUID, payload interface{})
}

// Dispatcher delivers pending outbox rows at least once.
type Dispatcher struct {
	db     *gorm.DB
	mailer Mailer
	pusher Pusher
	now    func() time.Time

	BatchSize int

	mu   sync.Mutex
	kick chan struct{}
}

func NewDispatcher(db *gorm.DB, mailer Mailer, pusher Pusher) *Dispatcher {
	return &Dispatcher{
		db:        db,
		mailer:    mailer,
		pusher:    pusher,
		now:       time.Now,
		BatchSize: defaultBatchSize,
		kick:      make(chan struct{}, 1),
	}
}

// Kick asks the dispatcher loop to run soon. It never blocks.
func (d *Dispatcher) Kick() {
	if d == nil {
		return
	}
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// Run drains the outbox every time it is kicked until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.kick:
			if _, err := d.DispatchPending(ctx); err != nil {
				log.Printf("🔥 Outbox dispatch failed: %v", err)
			}
		}
	}
}

// DispatchPending sends one batch and returns how many were delivered.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var pending []models.Notification
	err := d.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", models.NotificationPending, MaxAttempts).
		Order("created_at ASC").
		Limit(d.BatchSize).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		n := &pending[i]
		if err := d.mailer.Send(ctx, n.RecipientName, n.RecipientEmail, n.Subject, n.Body); err != nil {
			d.markFailed(ctx, n, err)
			continue
		}

		now := d.now()
		err := d.db.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ? AND status = ?", n.ID, models.NotificationPending).
			Updates(map[string]interface{}{
				"status":   models.NotificationSent,
				"sent_at":  now,
				"attempts": n.Attempts + 1,
			}).Error
		if err != nil {
			log.Printf("🔥 Failed to mark notification %s as sent: %v", n.ID, err)
			continue
		}
		sent++

		if d.pusher != nil {
			d.pusher.Push(n.RecipientID, livePayload(n, now))
		}
	}

	if sent > 0 {
		log.Printf("✅ Delivered %d notification(s)", sent)
	}
	return sent, nil
}

func (d *Dispatcher) markFailed(ctx context.Context, n *models.Notification, sendErr error) {
	attempts := n.Attempts + 1
	status := models.NotificationPending
	if attempts >= MaxAttempts {
		status = models.NotificationFailed
	}
	msg := sendErr.Error()

	log.Printf("🔥 Failed to send %s to %s (attempt %d): %v", n.Event, n.RecipientEmail, attempts, sendErr)
	err := d.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   attempts,
			"last_error": msg,
		}).Error
	if err != nil {
		log.Printf("🔥 Failed to record delivery failure for %s: %v", n.ID, err)
	}
}

type LiveNotification struct {
	ID      uuid.UUID `json:"id"`
	Event   string    `json:"event"`
	Subject string    `json:"subject"`
	SentAt  time.Time `json:"sent_at"`
}

func livePayload(n *models.Notification, sentAt time.Time) LiveNotification {
	return LiveNotification{ID: n.ID, Event: n.Event, Subject: n.Subject, SentAt: sentAt}
}
