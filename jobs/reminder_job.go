package jobs

import (
	"context"
	"log"
)

// SendBookingReminders emails users whose booking starts within the hour.
func SendBookingReminders(svc BookingSweeper) func() {
	return func() {
		log.Println("Running job: SendBookingReminders...")
		withTimeout(func(ctx context.Context) {
			n, err := svc.SendReminders(ctx)
			if err != nil {
				log.Printf("Error sending booking reminders: %v", err)
				return
			}
			if n > 0 {
				log.Printf("Queued %d booking reminder(s).", n)
			}
		})
	}
}
