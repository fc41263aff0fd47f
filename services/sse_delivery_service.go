package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"eco-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamOrderStatusSSE streams delivery-status changes for one order so the
// tracking view updates live while the scheduler (or a partner) advances it.
func (s *LedgerService) StreamOrderStatusSSE(c *fiber.Ctx) error {
	orderID := c.Params("orderId")

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastStatus models.DeliveryStatus

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var sub models.Submission
				err := s.DB.Where("order_id = ?", orderID).First(&sub).Error
				if err != nil {
					if !errors.Is(err, gorm.ErrRecordNotFound) {
						log.Printf("SSE query error for order %s: %v", orderID, err)
					}
					continue
				}
				if sub.DeliveryStatus == nil || *sub.DeliveryStatus == lastStatus {
					continue
				}
				lastStatus = *sub.DeliveryStatus

				payload, _ := json.Marshal(fiber.Map{
					"order_id":        orderID,
					"delivery_status": lastStatus,
					"updated_at":      sub.DeliveryUpdatedAt,
				})
				fmt.Fprintf(w, "event: delivery\ndata: %s\n\n", payload)

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

				// Terminal state reached: close the stream
				if lastStatus == models.DeliveryStatusDelivered || lastStatus == models.DeliveryStatusCancelled {
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
