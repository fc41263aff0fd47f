// services/ledger_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"eco-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimBonusPoints is the flat award paid to both parties when a listed item
// is claimed and settled. Overwrites the submission's creation-time value.
const ClaimBonusPoints = 10

// MaxOTPAttempts caps delivery-confirmation attempts per order.
const MaxOTPAttempts = 5

// LedgerService owns every state-transition operation over users, submissions
// and delivery orders. All mutations run inside a transaction; the re-read of
// submission status inside the transaction is what keeps settlement exactly-once.
type LedgerService struct {
	DB        *gorm.DB
	Estimator ImpactEstimator
	Badges    *BadgeService
}

func NewLedgerService(db *gorm.DB, estimator ImpactEstimator) *LedgerService {
	return &LedgerService{
		DB:        db,
		Estimator: estimator,
		Badges:    NewBadgeService(db),
	}
}

// EnsureUser creates a zero-initialized ledger record the first time an
// identity is seen, and returns the stored record on subsequent calls.
func (s *LedgerService) EnsureUser(externalUserID, name, email string) (*models.EcoUser, error) {
	if externalUserID == "" {
		return nil, ErrNotAuthenticated
	}
	var user models.EcoUser
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.EcoUser{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Name:           name,
			Email:          email,
			AvatarURL:      "https://placehold.co/100x100.png",
			Points:         0,
			Level:          1,
			Streak:         0,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SubmitItemInput carries the classification extras alongside the item itself.
type SubmitItemInput struct {
	ItemType            string
	PhotoURL            string
	Location            models.Location
	RecyclingSuggestion string
	AIRoast             string
}

// SubmitItem converts a recycling submission into point/impact/badge/streak
// updates. Estimator failure degrades to a zero impact record and never aborts
// the submission.
func (s *LedgerService) SubmitItem(ctx context.Context, ownerExternalID string, in SubmitItemInput) (*models.Submission, error) {
	if ownerExternalID == "" {
		return nil, ErrNotAuthenticated
	}

	impact, err := s.Estimator.Estimate(ctx, in.ItemType)
	if err != nil {
		log.Printf("⚠️ Impact estimation failed for %q, using zero record: %v", in.ItemType, err)
		impact = models.ImpactRecord{}
	}

	now := time.Now()
	var created *models.Submission

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.EcoUser
		if err := tx.Where("external_user_id = ?", ownerExternalID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAuthenticated
			}
			return err
		}

		sub := models.Submission{
			ID:                  uuid.NewString(),
			OwnerID:             ownerExternalID,
			PhotoURL:            in.PhotoURL,
			ItemType:            in.ItemType,
			Status:              models.SubmissionStatusSubmitted,
			Points:              models.PointsFor(in.ItemType),
			Location:            in.Location,
			ImpactRecord:        impact,
			RecyclingSuggestion: in.RecyclingSuggestion,
			AIRoast:             in.AIRoast,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		user.Streak = nextStreak(user.LastRecycledAt, now, user.Streak)
		user.LastRecycledAt = &now
		user.TotalItems++
		user.ImpactRecord = user.ImpactRecord.Add(impact)
		user.Points += sub.Points
		user.Level = models.LevelForPoints(user.Points).Level

		var ownSubs []models.Submission
		if err := tx.Where("owner_id = ?", ownerExternalID).Find(&ownSubs).Error; err != nil {
			return err
		}
		if err := s.Badges.AutoAwardBadges(tx, &user, ownSubs); err != nil {
			return err
		}

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		created = &sub
		fmt.Printf("♻️ Submission recorded: %s → %s (+%d pts, streak %d)\n",
			ownerExternalID, sub.ItemType, sub.Points, user.Streak)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteSubmission removes a submission and reverses its contribution to the
// owner's aggregates. Sold submissions are immutable completed transactions.
// Deleting an id that does not exist is a safe no-op.
func (s *LedgerService) DeleteSubmission(ownerExternalID, id string) error {
	if ownerExternalID == "" {
		return ErrNotAuthenticated
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("id = ?", id).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // no-op, never corrupts state
			}
			return err
		}
		if sub.OwnerID != ownerExternalID {
			return ErrNotFound
		}
		if sub.Status == models.SubmissionStatusSold {
			return ErrAlreadySold
		}

		var user models.EcoUser
		if err := tx.Where("external_user_id = ?", ownerExternalID).First(&user).Error; err != nil {
			return err
		}

		if user.TotalItems > 0 {
			user.TotalItems--
		}
		user.ImpactRecord = user.ImpactRecord.Subtract(sub.ImpactRecord)
		user.Points -= sub.Points
		if user.Points < 0 {
			user.Points = 0
		}
		user.Level = models.LevelForPoints(user.Points).Level

		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Delete(&sub).Error
	})
}

// ClaimItem is the direct (no-delivery) claim: both parties earn the flat claim
// bonus and the submission leaves the open marketplace as Sold. Claiming an
// already-sold submission is a no-op so the operation is safe to retry.
func (s *LedgerService) ClaimItem(claimantExternalID, id string) error {
	if claimantExternalID == "" {
		return ErrNotAuthenticated
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("id = ?", id).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sub.Status == models.SubmissionStatusSold {
			return nil // already settled, suppress
		}
		if sub.OwnerID == claimantExternalID {
			return ErrSelfClaim
		}
		return s.settle(tx, &sub, claimantExternalID)
	})
}

// settle pays the claim bonus to both parties and terminalizes the submission.
// Must run inside a transaction; the status re-check makes repeats a no-op.
func (s *LedgerService) settle(tx *gorm.DB, sub *models.Submission, claimantExternalID string) error {
	if sub.Status == models.SubmissionStatusSold {
		return ErrAlreadySettled
	}

	if err := s.awardPoints(tx, sub.OwnerID, ClaimBonusPoints); err != nil {
		return err
	}
	if err := s.awardPoints(tx, claimantExternalID, ClaimBonusPoints); err != nil {
		return err
	}

	sub.Status = models.SubmissionStatusSold
	sub.Points = ClaimBonusPoints
	sub.ClaimedByUserID = &claimantExternalID
	if err := tx.Save(sub).Error; err != nil {
		return err
	}

	fmt.Printf("🤝 Settled: item %s, %s ↔ %s (+%d pts each)\n",
		sub.ID, sub.OwnerID, claimantExternalID, ClaimBonusPoints)
	return nil
}

func (s *LedgerService) awardPoints(tx *gorm.DB, externalUserID string, points int) error {
	var user models.EcoUser
	if err := tx.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
		return fmt.Errorf("ledger record not found for %s", externalUserID)
	}
	user.Points += points
	user.Level = models.LevelForPoints(user.Points).Level
	return tx.Save(&user).Error
}

// ConfirmOrder attaches the delivery sub-record: unique order id, 4-digit OTP,
// pseudo-random partner from the roster, claimant and address. Returns the
// order id. Re-confirming an item that already has an order returns the
// existing id.
func (s *LedgerService) ConfirmOrder(claimantExternalID, itemID, deliveryAddress string) (string, error) {
	if claimantExternalID == "" {
		return "", ErrNotAuthenticated
	}
	var orderID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("id = ?", itemID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sub.Status == models.SubmissionStatusSold {
			return ErrAlreadySold
		}
		if sub.OwnerID == claimantExternalID {
			return ErrSelfClaim
		}
		if sub.OrderID != nil {
			orderID = *sub.OrderID
			return nil
		}

		orderID = "ORD-" + strings.ToUpper(uuid.NewString()[:8])
		otp := fmt.Sprintf("%d", 1000+rand.Intn(9000)) // collisions across orders are fine
		partner := models.DeliveryPartners[rand.Intn(len(models.DeliveryPartners))]
		status := models.DeliveryStatusConfirmed
		now := time.Now()

		sub.OrderID = &orderID
		sub.OTP = &otp
		sub.DeliveryPartnerID = &partner.ID
		sub.DeliveryStatus = &status
		sub.DeliveryAddress = &deliveryAddress
		sub.ClaimedByUserID = &claimantExternalID
		sub.OrderConfirmedAt = &now
		sub.DeliveryUpdatedAt = &now

		return tx.Save(&sub).Error
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// deliveryTransitions: each stage is advanced by an explicit action; no stage
// is skipped. Cancellation stops being available once the partner is on the road.
var deliveryTransitions = map[models.DeliveryStatus][]models.DeliveryStatus{
	models.DeliveryStatusConfirmed:      {models.DeliveryStatusPacked, models.DeliveryStatusCancelled},
	models.DeliveryStatusPacked:         {models.DeliveryStatusOutForDelivery, models.DeliveryStatusCancelled},
	models.DeliveryStatusOutForDelivery: {models.DeliveryStatusDelivered},
	models.DeliveryStatusDelivered:      {},
	models.DeliveryStatusCancelled:      {},
}

func transitionAllowed(from, to models.DeliveryStatus) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateDeliveryStatus advances the order lifecycle. Landing on Delivered also
// performs settlement, exactly once: a repeat request is an idempotent no-op
// and a Sold submission is never paid again.
func (s *LedgerService) UpdateDeliveryStatus(orderID string, newStatus models.DeliveryStatus) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("order_id = ?", orderID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		current := *sub.DeliveryStatus
		if current == newStatus {
			return nil // idempotent repeat
		}
		if !transitionAllowed(current, newStatus) {
			return ErrInvalidTransition
		}

		now := time.Now()
		sub.DeliveryStatus = &newStatus
		sub.DeliveryUpdatedAt = &now

		if newStatus == models.DeliveryStatusDelivered && sub.Status != models.SubmissionStatusSold {
			if sub.ClaimedByUserID == nil {
				return fmt.Errorf("order %s has no claimant", orderID)
			}
			return s.settle(tx, &sub, *sub.ClaimedByUserID)
		}
		return tx.Save(&sub).Error
	})
}

// VerifyOTP compares the supplied code verbatim against the order's stored OTP.
// A match marks the order Delivered (triggering settlement); a mismatch leaves
// all state untouched beyond the attempt counter.
func (s *LedgerService) VerifyOTP(orderID, suppliedCode string) error {
	var matched bool
	var verdict error
	// A sentinel returned from the closure would roll back the attempt counter,
	// so verdicts travel out through the captured variable instead.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("order_id = ?", orderID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sub.DeliveryStatus != nil && *sub.DeliveryStatus == models.DeliveryStatusDelivered {
			return nil // already delivered, nothing to verify
		}
		if sub.OTPAttempts >= MaxOTPAttempts {
			verdict = ErrOtpLocked
			return nil
		}
		if sub.OTP == nil || *sub.OTP != suppliedCode {
			sub.OTPAttempts++
			verdict = ErrOtpMismatch
			return tx.Save(&sub).Error
		}
		matched = true
		return nil
	})
	if err != nil {
		return err
	}
	if verdict != nil {
		return verdict
	}
	if !matched {
		return nil
	}
	return s.UpdateDeliveryStatus(orderID, models.DeliveryStatusDelivered)
}

// OpenMarketItems lists live submissions available to claim: not Sold, not
// already ordered, and not the viewer's own.
func (s *LedgerService) OpenMarketItems(viewerExternalID string) ([]models.Submission, error) {
	var items []models.Submission
	q := s.DB.Where("status <> ?", models.SubmissionStatusSold).
		Where("order_id IS NULL").
		Order("created_at DESC")
	if viewerExternalID != "" {
		q = q.Where("owner_id <> ?", viewerExternalID)
	}
	err := q.Find(&items).Error
	return items, err
}

// GetOrder fetches the submission carrying the given order id.
func (s *LedgerService) GetOrder(orderID string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.DB.Where("order_id = ?", orderID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetUserSubmissions returns the owner's history, newest first.
func (s *LedgerService) GetUserSubmissions(ownerExternalID string) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.DB.Where("owner_id = ?", ownerExternalID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// UpdateSubmissionStatus moves a submission along the recycling lifecycle
// (Submitted → Picked Up → Recycled, or Failed). Sold is reserved for settlement.
func (s *LedgerService) UpdateSubmissionStatus(id string, status models.SubmissionStatus) error {
	if status == models.SubmissionStatusSold {
		return ErrInvalidTransition
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.Where("id = ?", id).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sub.Status == models.SubmissionStatusSold {
			return ErrAlreadySold
		}
		sub.Status = status
		return tx.Save(&sub).Error
	})
}

// nextStreak applies the consecutive-calendar-day rules.
func nextStreak(last *time.Time, now time.Time, current int) int {
	if last == nil {
		return 1
	}
	switch calendarDaysBetween(*last, now) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	dayA := time.Date(ay, am, ad, 0, 0, 0, 0, time.Local)
	dayB := time.Date(by, bm, bd, 0, 0, 0, 0, time.Local)
	return int(dayB.Sub(dayA).Hours() / 24)
}
