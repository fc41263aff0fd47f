// handlers/ledger_routes.go
package handlers

import (
	"encoding/base64"
	"errors"
	"strings"

	"eco-rewards-system/middleware"
	"eco-rewards-system/models"
	"eco-rewards-system/services"
	"eco-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupLedgerRoutes(app *fiber.App, ledger *services.LedgerService, badges *services.BadgeService, aiClient *services.ImpactServiceClient) {
	// 🔐 Secured routes — require user context set by the gateway
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/classify", func(c *fiber.Ctx) error {
		var req struct {
			PhotoDataURI string `json:"photo_data_uri" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		res, err := aiClient.Classify(c.Context(), req.PhotoDataURI)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "classification failed", "cause": err.Error()})
		}
		return c.JSON(res)
	})

	secured.Post("/submissions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ItemType            string  `json:"item_type" validate:"required"`
			PhotoDataURI        string  `json:"photo_data_uri"`
			Lat                 float64 `json:"lat"`
			Lng                 float64 `json:"lng"`
			Address             string  `json:"address"`
			City                string  `json:"city"`
			RecyclingSuggestion string  `json:"recycling_suggestion"`
			AIRoast             string  `json:"ai_roast"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.ItemType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item_type is required"})
		}

		// First-seen identities get a zeroed ledger record
		if _, err := ledger.EnsureUser(userID, c.Locals("user_name").(string), c.Locals("user_email").(string)); err != nil {
			return mapLedgerError(c, err)
		}

		photoURL, err := storePhoto(req.PhotoDataURI, req.ItemType)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo", "cause": err.Error()})
		}

		sub, err := ledger.SubmitItem(c.Context(), userID, services.SubmitItemInput{
			ItemType: req.ItemType,
			PhotoURL: photoURL,
			Location: models.Location{
				Lat:     req.Lat,
				Lng:     req.Lng,
				Address: req.Address,
				City:    req.City,
			},
			RecyclingSuggestion: req.RecyclingSuggestion,
			AIRoast:             req.AIRoast,
		})
		if err != nil {
			return mapLedgerError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	})

	secured.Delete("/submissions/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := ledger.DeleteSubmission(userID, c.Params("id")); err != nil {
			return mapLedgerError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Submission deleted successfully"})
	})

	secured.Patch("/submissions/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status models.SubmissionStatus `json:"status" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := ledger.UpdateSubmissionStatus(c.Params("id"), req.Status); err != nil {
			return mapLedgerError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Status updated"})
	})

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		user, err := ledger.EnsureUser(userID, c.Locals("user_name").(string), c.Locals("user_email").(string))
		if err != nil {
			return mapLedgerError(c, err)
		}
		levelData := models.LevelForPoints(user.Points)
		return c.JSON(fiber.Map{
			"id":               user.ID,
			"external_user_id": user.ExternalUserID,
			"name":             user.Name,
			"avatar_url":       user.AvatarURL,
			"points":           user.Points,
			"level":            user.Level,
			"level_name":       levelData.Name,
			"streak":           user.Streak,
			"last_recycled_at": user.LastRecycledAt,
			"total_items":      user.TotalItems,
			"impact_stats":     user.ImpactRecord,
		})
	})

	secured.Get("/user/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		subs, err := ledger.GetUserSubmissions(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get history", "cause": err.Error()})
		}
		return c.JSON(subs)
	})

	secured.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		res, err := badges.GetUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get badges", "cause": err.Error()})
		}
		return c.JSON(res)
	})

	// 🔓 Badge catalog is public reference data
	app.Get("/badges", func(c *fiber.Ctx) error {
		catalog := make([]models.BadgeType, 0, len(models.BadgeCatalog))
		for _, spec := range models.BadgeCatalog {
			catalog = append(catalog, spec.BadgeType)
		}
		return c.JSON(catalog)
	})
}

// storePhoto decodes a base64 photo data URI and stores it in R2, falling back
// to the local uploads dir when R2 is not configured. Empty input is allowed —
// the ledger does not require a photo to account for an item.
func storePhoto(dataURI, itemType string) (string, error) {
	if dataURI == "" {
		return "", nil
	}
	contentType := "image/jpeg"
	ext := ".jpg"
	payload := dataURI
	if strings.HasPrefix(dataURI, "data:") {
		parts := strings.SplitN(dataURI, ",", 2)
		if len(parts) != 2 {
			return "", errors.New("malformed data URI")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		contentType = strings.SplitN(meta, ";", 2)[0]
		if strings.Contains(contentType, "png") {
			ext = ".png"
		}
		payload = parts[1]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}

	key := utils.SubmissionPhotoKey(itemType, ext)
	if utils.R2Enabled() {
		return utils.UploadPhotoToR2(data, key, contentType)
	}
	return utils.SavePhotoLocally(data, key)
}

func mapLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadySold), errors.Is(err, services.ErrAlreadySettled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSelfClaim), errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrOtpMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "incorrect OTP"})
	case errors.Is(err, services.ErrOtpLocked):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "cause": err.Error()})
	}
}
