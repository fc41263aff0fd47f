package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"eco-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedUserCount is how many synthetic users pad the leaderboard on first boot.
const SeedUserCount = 49

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

var seedNames = []string{"Aarav", "Sanya", "Vikram", "Priya", "Rohan", "Isha", "Arjun", "Diya"}
var seedCities = []string{"New Delhi", "Mumbai", "Bangalore", "Kolkata", "Chennai"}

// SeedSyntheticUsers fills the leaderboard with synthetic identities. Idempotent:
// does nothing once any synthetic user exists.
func (s *LeaderboardService) SeedSyntheticUsers() error {
	var count int64
	if err := s.DB.Model(&models.EcoUser{}).Where("synthetic = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	users := make([]models.EcoUser, 0, SeedUserCount)
	for i := 0; i < SeedUserCount; i++ {
		points := rand.Intn(1500)
		last := time.Now().Add(-time.Duration(rand.Intn(10*24)) * time.Hour)
		users = append(users, models.EcoUser{
			ID:             uuid.NewString(),
			ExternalUserID: fmt.Sprintf("seed-%s", uuid.NewString()[:8]),
			Name:           fmt.Sprintf("%s %c", seedNames[rand.Intn(len(seedNames))], 'A'+rune(i%26)),
			AvatarURL:      "https://placehold.co/100x100.png",
			City:           seedCities[rand.Intn(len(seedCities))],
			Points:         points,
			Level:          models.LevelForPoints(points).Level,
			Streak:         rand.Intn(20),
			LastRecycledAt: &last,
			TotalItems:     int64(rand.Intn(50)),
			ImpactRecord: models.ImpactRecord{
				CO2SavedKg:      rand.Float64() * 5,
				WaterSavedL:     rand.Float64() * 20,
				TreesEquivalent: rand.Float64() * 0.5,
			},
			Synthetic: true,
		})
	}
	if err := s.DB.Create(&users).Error; err != nil {
		return err
	}
	log.Printf("🌱 Seeded %d synthetic leaderboard users", len(users))
	return nil
}

// Top returns the leaderboard view: all identities ordered by points.
// Not separately authoritative — always derived by re-sorting eco_users.
func (s *LeaderboardService) Top(limit int) ([]models.EcoUser, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var users []models.EcoUser
	err := s.DB.Order("points DESC").Limit(limit).Find(&users).Error
	return users, err
}

// PerturbSyntheticPoints nudges every synthetic user's points by a small random
// non-negative increment and recomputes levels. Real identities are never touched.
func (s *LeaderboardService) PerturbSyntheticPoints() error {
	var users []models.EcoUser
	if err := s.DB.Where("synthetic = ?", true).Find(&users).Error; err != nil {
		return err
	}
	for i := range users {
		delta := rand.Intn(5)
		if delta == 0 {
			continue
		}
		users[i].Points += delta
		users[i].Level = models.LevelForPoints(users[i].Points).Level
		if err := s.DB.Model(&models.EcoUser{}).
			Where("id = ? AND synthetic = ?", users[i].ID, true).
			Updates(map[string]interface{}{
				"points": users[i].Points,
				"level":  users[i].Level,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}
