// services/scheduler.go
package services

import (
	"log"
	"time"

	"eco-rewards-system/models"

	"github.com/go-co-op/gocron/v2"
)

// Simulated fulfilment delays: a confirmed order is packed after 5s and goes
// out for delivery 8s after packing. Delivered is never reached here — that
// transition is OTP-gated.
const (
	packAfter     = 5 * time.Second
	dispatchAfter = 8 * time.Second
)

// StartDeliveryScheduler advances simulated deliveries in the background.
func (s *LedgerService) StartDeliveryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Second),
		gocron.NewTask(func() {
			now := time.Now()

			var toPack []models.Submission
			err := s.DB.Where("delivery_status = ? AND order_confirmed_at <= ?",
				models.DeliveryStatusConfirmed, now.Add(-packAfter)).
				Find(&toPack).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, sub := range toPack {
				if err := s.UpdateDeliveryStatus(*sub.OrderID, models.DeliveryStatusPacked); err != nil {
					log.Printf("[Scheduler] Failed to pack order %s: %v", *sub.OrderID, err)
				} else {
					log.Printf("📦 Order packed: %s", *sub.OrderID)
				}
			}

			var toDispatch []models.Submission
			err = s.DB.Where("delivery_status = ? AND delivery_updated_at <= ?",
				models.DeliveryStatusPacked, now.Add(-dispatchAfter)).
				Find(&toDispatch).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, sub := range toDispatch {
				if err := s.UpdateDeliveryStatus(*sub.OrderID, models.DeliveryStatusOutForDelivery); err != nil {
					log.Printf("[Scheduler] Failed to dispatch order %s: %v", *sub.OrderID, err)
				} else {
					log.Printf("🚚 Order out for delivery: %s", *sub.OrderID)
				}
			}
		}),
	)
}
