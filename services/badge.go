package services

import (
	"fmt"

	"eco-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// EvaluateBadges returns the badge codes whose predicate holds for the given
// post-mutation user snapshot and submission list. Pure with respect to its
// inputs; does not touch the database.
func EvaluateBadges(user *models.EcoUser, submissions []models.Submission) []string {
	var satisfied []string
	for _, spec := range models.BadgeCatalog {
		if spec.Condition(user, submissions) {
			satisfied = append(satisfied, spec.Code)
		}
	}
	return satisfied
}

// AutoAwardBadges evaluates the catalog against the user's current snapshot and
// unions newly satisfied badges into the awarded set. Awarded badges are never
// removed here, even if the qualifying submissions are later deleted.
func (s *BadgeService) AutoAwardBadges(tx *gorm.DB, user *models.EcoUser, submissions []models.Submission) error {
	for _, code := range EvaluateBadges(user, submissions) {
		var count int64
		if err := tx.Model(&models.UserBadge{}).
			Where("external_user_id = ? AND badge_code = ?", user.ExternalUserID, code).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			userBadge := models.UserBadge{
				ID:             uuid.NewString(),
				ExternalUserID: user.ExternalUserID,
				BadgeCode:      code,
			}
			if err := tx.Create(&userBadge).Error; err != nil {
				return err
			}
			fmt.Printf("🎖️ Badge awarded: %s → %s\n", code, user.ExternalUserID)
		}
	}
	return nil
}

// GetUserBadges returns the awarded badge rows joined with catalog metadata.
func (s *BadgeService) GetUserBadges(externalUserID string) ([]map[string]interface{}, error) {
	var userBadges []models.UserBadge
	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("awarded_at ASC").
		Find(&userBadges).Error; err != nil {
		return nil, err
	}

	byCode := make(map[string]models.BadgeType, len(models.BadgeCatalog))
	for _, spec := range models.BadgeCatalog {
		byCode[spec.Code] = spec.BadgeType
	}

	res := make([]map[string]interface{}, 0, len(userBadges))
	for _, ub := range userBadges {
		meta := byCode[ub.BadgeCode]
		res = append(res, map[string]interface{}{
			"id":          ub.ID,
			"code":        ub.BadgeCode,
			"name":        meta.Name,
			"description": meta.Description,
			"icon_url":    meta.IconURL,
			"awarded_at":  ub.AwardedAt,
		})
	}
	return res, nil
}
