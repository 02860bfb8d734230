package jobs

import (
	"context"
	"log"
)

// DispatchNotifications retries outbox rows the dispatcher loop has not
// delivered yet.
func DispatchNotifications(d OutboxDispatcher) func() {
	return func() {
		withTimeout(func(ctx context.Context) {
			n, err := d.DispatchPending(ctx)
			if err != nil {
				log.Printf("Error dispatching notifications: %v", err)
				return
			}
			if n > 0 {
				log.Printf("Delivered %d notification(s).", n)
			}
		})
	}
}
