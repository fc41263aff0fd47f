package models

import (
	"time"
)

// BadgeType: static badge metadata (mirrored into DB for the API surface)
type BadgeType struct {
	Code        string `gorm:"primaryKey" json:"code"` // e.g., "first_timer"
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	IconURL     string `gorm:"type:text" json:"icon_url"`
}

// UserBadge: awarded instance. Badges are permanent achievements — rows are
// never removed by the evaluator, even if the qualifying submissions are deleted.
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index:idx_user_badge,unique;not null" json:"external_user_id"`
	BadgeCode      string    `gorm:"index:idx_user_badge,unique;not null" json:"badge_code"`
	AwardedAt      time.Time `json:"awarded_at" gorm:"autoCreateTime"`
}

// BadgeSpec pairs a catalog entry with its unlock predicate. Predicates are pure:
// they read only the candidate user snapshot and that user's submissions, never
// the clock or any global state.
type BadgeSpec struct {
	BadgeType
	Condition func(user *EcoUser, submissions []Submission) bool `gorm:"-" json:"-"`
}

// BadgeCatalog is the declarative badge rule set.
// social_sharer and community_leader are placeholders: they need collaborators
// (share tracking, neighborhood ranking) this service does not have.
var BadgeCatalog = []BadgeSpec{
	{
		BadgeType: BadgeType{Code: "first_timer", Name: "First Timer", Description: "Recycle your first item."},
		Condition: func(user *EcoUser, submissions []Submission) bool {
			return len(submissions) > 0
		},
	},
	{
		BadgeType: BadgeType{Code: "streak_master", Name: "Streak Master", Description: "Maintain a 7-day recycling streak."},
		Condition: func(user *EcoUser, submissions []Submission) bool {
			return user.Streak >= 7
		},
	},
	{
		BadgeType: BadgeType{Code: "paper_saver", Name: "Paper Saver", Description: "Recycle 10 paper items."},
		Condition: func(user *EcoUser, submissions []Submission) bool {
			return countByType(submissions, "paper") >= 10
		},
	},
	{
		BadgeType: BadgeType{Code: "tech_recycler", Name: "Tech Recycler", Description: "Recycle 5 e-waste items."},
		Condition: func(user *EcoUser, submissions []Submission) bool {
			return countByType(submissions, "e-waste") >= 5
		},
	},
	{
		BadgeType: BadgeType{Code: "social_sharer", Name: "Social Sharer", Description: "Share your achievements 3 times."},
		Condition: func(user *EcoUser, submissions []Submission) bool { return false },
	},
	{
		BadgeType: BadgeType{Code: "community_leader", Name: "Community Leader", Description: "Reach the top 10 in your neighborhood."},
		Condition: func(user *EcoUser, submissions []Submission) bool { return false },
	},
}

func countByType(submissions []Submission, itemType string) int {
	n := 0
	for _, s := range submissions {
		if s.ItemType == itemType {
			n++
		}
	}
	return n
}
