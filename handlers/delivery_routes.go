// handlers/delivery_routes.go
package handlers

import (
	"eco-rewards-system/middleware"
	"eco-rewards-system/models"
	"eco-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDeliveryRoutes(app *fiber.App, ledger *services.LedgerService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/orders/:orderId", func(c *fiber.Ctx) error {
		sub, err := ledger.GetOrder(c.Params("orderId"))
		if err != nil {
			return mapLedgerError(c, err)
		}
		resp := fiber.Map{
			"order_id":         sub.OrderID,
			"item_type":        sub.ItemType,
			"photo_url":        sub.PhotoURL,
			"delivery_status":  sub.DeliveryStatus,
			"delivery_address": sub.DeliveryAddress,
			"confirmed_at":     sub.OrderConfirmedAt,
			"updated_at":       sub.DeliveryUpdatedAt,
		}
		if sub.DeliveryPartnerID != nil {
			if partner, ok := models.PartnerByID(*sub.DeliveryPartnerID); ok {
				resp["delivery_partner"] = partner
			}
		}
		// The OTP is only shown to the assigned partner in the partner dashboard;
		// the customer receives it out of band.
		if c.Get("X-Partner-ID") != "" && sub.DeliveryPartnerID != nil && c.Get("X-Partner-ID") == *sub.DeliveryPartnerID {
			resp["otp"] = sub.OTP
		}
		return c.JSON(resp)
	})

	secured.Post("/orders/:orderId/status", func(c *fiber.Ctx) error {
		var req struct {
			Status models.DeliveryStatus `json:"status" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Status == models.DeliveryStatusDelivered {
			// Delivered is OTP-gated; partners cannot force it through this route
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "delivery confirmation requires OTP verification"})
		}
		if err := ledger.UpdateDeliveryStatus(c.Params("orderId"), req.Status); err != nil {
			return mapLedgerError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Delivery status updated", "status": req.Status})
	})

	secured.Post("/orders/:orderId/verify-otp", func(c *fiber.Ctx) error {
		var req struct {
			Code string `json:"code" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := ledger.VerifyOTP(c.Params("orderId"), req.Code); err != nil {
			return mapLedgerError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Delivery confirmed"})
	})

	secured.Get("/orders/:orderId/stream", ledger.StreamOrderStatusSSE)

	// 🔓 Roster is static reference data
	app.Get("/delivery-partners", func(c *fiber.Ctx) error {
		return c.JSON(models.DeliveryPartners)
	})
}
