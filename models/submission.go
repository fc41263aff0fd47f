package models

import (
	"time"

	"gorm.io/gorm"
)

// SubmissionStatus is the recycling lifecycle of a submitted item
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "Submitted"
	SubmissionStatusPickedUp  SubmissionStatus = "Picked Up"
	SubmissionStatusRecycled  SubmissionStatus = "Recycled"
	SubmissionStatusFailed    SubmissionStatus = "Failed"
	SubmissionStatusSold      SubmissionStatus = "Sold" // terminal, set by settlement
)

// DeliveryStatus is the order lifecycle once an item is claimed for pickup
type DeliveryStatus string

const (
	DeliveryStatusConfirmed      DeliveryStatus = "Confirmed"
	DeliveryStatusPacked         DeliveryStatus = "Packed"
	DeliveryStatusOutForDelivery DeliveryStatus = "Out for Delivery"
	DeliveryStatusDelivered      DeliveryStatus = "Delivered"
	DeliveryStatusCancelled      DeliveryStatus = "Cancelled"
)

// Location is the geo snapshot captured at submission time
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `gorm:"type:text" json:"address"`
	City    string  `json:"city"`
}

// Submission represents a single recycling item event.
// The impact record is computed once at creation and never recomputed; Points
// holds the catalog value at creation, overwritten with the claim bonus once Sold.
type Submission struct {
	ID       string           `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID  string           `gorm:"index;not null" json:"owner_id"` // external user id
	PhotoURL string           `gorm:"type:text" json:"photo_url"`
	ItemType string           `gorm:"index;not null" json:"item_type"`
	Status   SubmissionStatus `gorm:"type:varchar(16);not null;default:'Submitted';index" json:"status"`
	Points   int              `json:"points"`

	Location     `gorm:"embedded" json:"location"`
	ImpactRecord `gorm:"embedded" json:"impact"`

	RecyclingSuggestion string `gorm:"type:text" json:"recycling_suggestion,omitempty"`
	AIRoast             string `gorm:"type:text" json:"ai_roast,omitempty"`

	ClaimedByUserID *string `gorm:"index" json:"claimed_by_user_id,omitempty"`

	// Delivery sub-record, present once the item is claimed for pickup
	OrderID           *string         `gorm:"uniqueIndex" json:"order_id,omitempty"`
	DeliveryStatus    *DeliveryStatus `gorm:"type:varchar(20)" json:"delivery_status,omitempty"`
	DeliveryPartnerID *string         `json:"delivery_partner_id,omitempty"`
	DeliveryAddress   *string         `gorm:"type:text" json:"delivery_address,omitempty"`
	OTP               *string         `gorm:"type:varchar(8)" json:"-"`
	OTPAttempts       int             `json:"-" gorm:"default:0"`
	OrderConfirmedAt  *time.Time      `json:"order_confirmed_at,omitempty"`
	DeliveryUpdatedAt *time.Time      `json:"delivery_updated_at,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasOrder reports whether a delivery sub-record is attached.
func (s *Submission) HasOrder() bool {
	return s.OrderID != nil && s.DeliveryStatus != nil
}
