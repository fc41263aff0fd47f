package models

import "testing"

func badgeByCode(t *testing.T, code string) BadgeSpec {
	t.Helper()
	for _, spec := range BadgeCatalog {
		if spec.Code == code {
			return spec
		}
	}
	t.Fatalf("badge %q not in catalog", code)
	return BadgeSpec{}
}

func TestFirstTimerNeedsOneSubmission(t *testing.T) {
	spec := badgeByCode(t, "first_timer")
	user := &EcoUser{}
	if spec.Condition(user, nil) {
		t.Error("first_timer unlocked with no submissions")
	}
	if !spec.Condition(user, []Submission{{ItemType: "glass"}}) {
		t.Error("first_timer locked after one submission")
	}
}

func TestStreakMasterNeedsSevenDays(t *testing.T) {
	spec := badgeByCode(t, "streak_master")
	if spec.Condition(&EcoUser{Streak: 6}, nil) {
		t.Error("streak_master unlocked at streak 6")
	}
	if !spec.Condition(&EcoUser{Streak: 7}, nil) {
		t.Error("streak_master locked at streak 7")
	}
}

func TestTypeCountBadges(t *testing.T) {
	paper := badgeByCode(t, "paper_saver")
	tech := badgeByCode(t, "tech_recycler")

	subs := make([]Submission, 0, 15)
	for i := 0; i < 9; i++ {
		subs = append(subs, Submission{ItemType: "paper"})
	}
	for i := 0; i < 5; i++ {
		subs = append(subs, Submission{ItemType: "e-waste"})
	}

	if paper.Condition(&EcoUser{}, subs) {
		t.Error("paper_saver unlocked at 9 paper items")
	}
	if !tech.Condition(&EcoUser{}, subs) {
		t.Error("tech_recycler locked at 5 e-waste items")
	}

	subs = append(subs, Submission{ItemType: "paper"})
	if !paper.Condition(&EcoUser{}, subs) {
		t.Error("paper_saver locked at 10 paper items")
	}
}

func TestPlaceholderBadgesStayLocked(t *testing.T) {
	// social_sharer and community_leader need collaborators that do not exist;
	// they must remain in the catalog but never unlock.
	user := &EcoUser{Streak: 100, Points: 100000, TotalItems: 1000}
	subs := make([]Submission, 500)
	for _, code := range []string{"social_sharer", "community_leader"} {
		if badgeByCode(t, code).Condition(user, subs) {
			t.Errorf("%s unlocked without its collaborator", code)
		}
	}
}
