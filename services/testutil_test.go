package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"eco-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.EcoUser{},
		&models.Submission{},
		&models.UserBadge{},
		&models.SchemaMeta{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubEstimator returns a fixed impact record, or fails when told to.
type stubEstimator struct {
	record models.ImpactRecord
	fail   bool
}

func (s *stubEstimator) Estimate(ctx context.Context, itemType string) (models.ImpactRecord, error) {
	if s.fail {
		return models.ImpactRecord{}, errors.New("estimator unavailable")
	}
	return s.record, nil
}

func newTestLedger(t *testing.T) (*LedgerService, *stubEstimator) {
	t.Helper()
	est := &stubEstimator{
		record: models.ImpactRecord{CO2SavedKg: 0.2, WaterSavedL: 5, VolumeSavedM3: 0.01, TreesEquivalent: 0.01},
	}
	return NewLedgerService(openTestDB(t), est), est
}

func mustEnsureUser(t *testing.T, svc *LedgerService, id, name string) *models.EcoUser {
	t.Helper()
	u, err := svc.EnsureUser(id, name, name+"@example.com")
	if err != nil {
		t.Fatalf("EnsureUser(%s): %v", id, err)
	}
	return u
}

func mustSubmit(t *testing.T, svc *LedgerService, owner, itemType string) *models.Submission {
	t.Helper()
	sub, err := svc.SubmitItem(context.Background(), owner, SubmitItemInput{
		ItemType: itemType,
		Location: models.Location{Lat: 28.6, Lng: 77.2, Address: "123 Eco Lane", City: "New Delhi"},
	})
	if err != nil {
		t.Fatalf("SubmitItem(%s, %s): %v", owner, itemType, err)
	}
	return sub
}

func reloadUser(t *testing.T, svc *LedgerService, externalID string) *models.EcoUser {
	t.Helper()
	var u models.EcoUser
	if err := svc.DB.Where("external_user_id = ?", externalID).First(&u).Error; err != nil {
		t.Fatalf("reload user %s: %v", externalID, err)
	}
	return &u
}

func reloadSubmission(t *testing.T, svc *LedgerService, id string) *models.Submission {
	t.Helper()
	var s models.Submission
	if err := svc.DB.Where("id = ?", id).First(&s).Error; err != nil {
		t.Fatalf("reload submission %s: %v", id, err)
	}
	return &s
}
