package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 2 * time.Minute

type BookingSweeper interface {
	SweepStatuses(ctx context.Context) (activated, expired int, err error)
	SendReminders(ctx context.Context) (int, error)
}

type SubscriptionSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

type OutboxDispatcher interface {
	DispatchPending(ctx context.Context) (int, error)
}

// Entry is one scheduled job.
type Entry struct {
	Name string
	Spec string
	Run  func()
}

// Register adds every entry to the cron scheduler.
func Register(c *cron.Cron, entries ...Entry) error {
	for _, e := range entries {
		if _, err := c.AddFunc(e.Spec, e.Run); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", e.Name, e.Spec, err)
		}
		log.Printf("✅ Cron job %s scheduled (%s)", e.Name, e.Spec)
	}
	return nil
}

func withTimeout(run func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	run(ctx)
}
