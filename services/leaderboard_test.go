package services

import (
	"testing"

	"eco-rewards-system/models"
)

func TestSeedSyntheticUsersIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewLeaderboardService(db)

	if err := svc.SeedSyntheticUsers(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.SeedSyntheticUsers(); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	db.Model(&models.EcoUser{}).Where("synthetic = ?", true).Count(&count)
	if count != SeedUserCount {
		t.Errorf("synthetic users = %d, want %d", count, SeedUserCount)
	}

	var bad int64
	db.Model(&models.EcoUser{}).Where("synthetic = ? AND level <> 1 AND points < 101", true).Count(&bad)
	if bad > 0 {
		t.Errorf("%d seeded users violate level/points invariant", bad)
	}
}

func TestPerturbNeverTouchesRealUsers(t *testing.T) {
	db := openTestDB(t)
	svc := NewLeaderboardService(db)
	if err := svc.SeedSyntheticUsers(); err != nil {
		t.Fatal(err)
	}

	ledger := NewLedgerService(db, &stubEstimator{})
	real := mustEnsureUser(t, ledger, "real-1", "Asha")
	db.Model(real).Updates(map[string]interface{}{"points": 200, "level": 2})

	var syntheticBefore int64
	db.Model(&models.EcoUser{}).Where("synthetic = ?", true).Select("COALESCE(SUM(points), 0)").Scan(&syntheticBefore)

	for i := 0; i < 10; i++ {
		if err := svc.PerturbSyntheticPoints(); err != nil {
			t.Fatalf("perturb: %v", err)
		}
	}

	got := reloadUser(t, ledger, "real-1")
	if got.Points != 200 || got.Level != 2 {
		t.Errorf("real user mutated by tick: points %d level %d", got.Points, got.Level)
	}

	var syntheticAfter int64
	db.Model(&models.EcoUser{}).Where("synthetic = ?", true).Select("COALESCE(SUM(points), 0)").Scan(&syntheticAfter)
	if syntheticAfter < syntheticBefore {
		t.Errorf("synthetic points decreased: %d → %d", syntheticBefore, syntheticAfter)
	}

	// Levels stay consistent with points after perturbation
	var users []models.EcoUser
	db.Where("synthetic = ?", true).Find(&users)
	for _, u := range users {
		if u.Level != models.LevelForPoints(u.Points).Level {
			t.Errorf("user %s: level %d inconsistent with %d points", u.ID, u.Level, u.Points)
		}
	}
}

func TestTopOrdersByPoints(t *testing.T) {
	db := openTestDB(t)
	svc := NewLeaderboardService(db)
	if err := svc.SeedSyntheticUsers(); err != nil {
		t.Fatal(err)
	}

	top, err := svc.Top(10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 10 {
		t.Fatalf("len = %d, want 10", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Points > top[i-1].Points {
			t.Errorf("leaderboard out of order at %d: %d > %d", i, top[i].Points, top[i-1].Points)
		}
	}
}
