package jobs

import (
	"context"
	"log"
)

// SweepBookingStatuses starts upcoming bookings whose time has come and
// expires finished ones, returning their capacity to the space.
func SweepBookingStatuses(svc BookingSweeper) func() {
	return func() {
		log.Println("Running job: SweepBookingStatuses...")
		withTimeout(func(ctx context.Context) {
			activated, expired, err := svc.SweepStatuses(ctx)
			if err != nil {
				log.Printf("Error sweeping booking statuses: %v", err)
				return
			}
			if activated == 0 && expired == 0 {
				log.Println("No booking status changes.")
				return
			}
			log.Printf("Activated %d and expired %d booking(s).", activated, expired)
		})
	}
}
