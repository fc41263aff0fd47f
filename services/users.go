// services/users.go
package services

import (
	"eco-rewards-system/models"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers searches for participants within the local eco_users table.
func (s *LeaderboardService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.EcoUser{}).Where("synthetic = ?", false).Limit(limit)

	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ?",
			searchTerm, searchTerm,
		)
	}

	var users []models.EcoUser
	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	type UserSummary struct {
		ID             string `json:"id"`
		ExternalUserID string `json:"external_user_id"`
		Name           string `json:"name"`
		City           string `json:"city"`
		Points         int    `json:"points"`
		Level          int    `json:"level"`
	}

	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ID:             u.ID,
			ExternalUserID: u.ExternalUserID,
			Name:           u.Name,
			City:           u.City,
			Points:         u.Points,
			Level:          u.Level,
		}
	}

	return c.JSON(res)
}
