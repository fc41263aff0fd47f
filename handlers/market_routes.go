// handlers/market_routes.go
package handlers

import (
	"eco-rewards-system/middleware"
	"eco-rewards-system/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func SetupMarketRoutes(app *fiber.App, ledger *services.LedgerService, leaderboard *services.LeaderboardService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Get("/market/items", func(c *fiber.Ctx) error {
		viewer := c.Get("X-User-ID") // optional: hides own listings when present
		items, err := ledger.OpenMarketItems(viewer)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list market", "cause": err.Error()})
		}
		return c.JSON(items)
	})

	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		users, err := leaderboard.Top(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard", "cause": err.Error()})
		}
		return c.JSON(users)
	})

	app.Get("/users/search", leaderboard.SearchUsers)

	// 🔐 Secured routes
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/market/items/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if _, err := ledger.EnsureUser(userID, c.Locals("user_name").(string), c.Locals("user_email").(string)); err != nil {
			return mapLedgerError(c, err)
		}
		if err := ledger.ClaimItem(userID, c.Params("id")); err != nil {
			return mapLedgerError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Item claimed successfully"})
	})

	secured.Post("/market/items/:id/order", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			DeliveryAddress string `json:"delivery_address" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.DeliveryAddress == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "delivery_address is required"})
		}
		if _, err := ledger.EnsureUser(userID, c.Locals("user_name").(string), c.Locals("user_email").(string)); err != nil {
			return mapLedgerError(c, err)
		}
		orderID, err := ledger.ConfirmOrder(userID, c.Params("id"), req.DeliveryAddress)
		if err != nil {
			return mapLedgerError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": orderID})
	})
}
