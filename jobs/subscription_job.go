package jobs

import (
	"context"
	"log"
)

func ExpireSubscriptions(svc SubscriptionSweeper) func() {
	return func() {
		log.Println("Running job: ExpireSubscriptions...")
		withTimeout(func(ctx context.Context) {
			n, err := svc.SweepExpired(ctx)
			if err != nil {
				log.Printf("Error expiring subscriptions: %v", err)
				return
			}
			log.Printf("Expired %d subscription(s).", n)
		})
	}
}
