package services

import (
	"errors"
	"strings"
	"testing"

	"eco-rewards-system/models"
)

func confirmTestOrder(t *testing.T, svc *LedgerService) (string, *models.Submission) {
	t.Helper()
	mustEnsureUser(t, svc, "owner", "Asha")
	mustEnsureUser(t, svc, "buyer", "Bela")
	sub := mustSubmit(t, svc, "owner", "e-waste")
	orderID, err := svc.ConfirmOrder("buyer", sub.ID, "123 Eco Lane, Green City")
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}
	return orderID, reloadSubmission(t, svc, sub.ID)
}

func TestConfirmOrderAttachesDeliveryRecord(t *testing.T) {
	svc, _ := newTestLedger(t)
	orderID, sub := confirmTestOrder(t, svc)

	if !strings.HasPrefix(orderID, "ORD-") {
		t.Errorf("order id %q not well-formed", orderID)
	}
	if sub.OrderID == nil || *sub.OrderID != orderID {
		t.Errorf("stored order id = %v, want %s", sub.OrderID, orderID)
	}
	if sub.DeliveryStatus == nil || *sub.DeliveryStatus != models.DeliveryStatusConfirmed {
		t.Errorf("delivery status = %v, want Confirmed", sub.DeliveryStatus)
	}
	if sub.OTP == nil || len(*sub.OTP) != 4 {
		t.Errorf("otp = %v, want 4 digits", sub.OTP)
	}
	if sub.DeliveryPartnerID == nil {
		t.Fatal("no delivery partner assigned")
	}
	if _, ok := models.PartnerByID(*sub.DeliveryPartnerID); !ok {
		t.Errorf("partner %s not in roster", *sub.DeliveryPartnerID)
	}
	if sub.DeliveryAddress == nil || *sub.DeliveryAddress != "123 Eco Lane, Green City" {
		t.Errorf("address = %v", sub.DeliveryAddress)
	}
	if sub.ClaimedByUserID == nil || *sub.ClaimedByUserID != "buyer" {
		t.Errorf("claimant = %v, want buyer", sub.ClaimedByUserID)
	}

	// Re-confirming returns the existing order id, not a second order
	again, err := svc.ConfirmOrder("buyer", sub.ID, "somewhere else")
	if err != nil {
		t.Fatalf("repeat ConfirmOrder: %v", err)
	}
	if again != orderID {
		t.Errorf("repeat confirm returned %s, want %s", again, orderID)
	}
}

func TestConfirmOrderMissingItem(t *testing.T) {
	svc, _ := newTestLedger(t)
	mustEnsureUser(t, svc, "buyer", "Bela")
	if _, err := svc.ConfirmOrder("buyer", "no-such-item", "addr"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeliveryLifecycleSettlesExactlyOnce(t *testing.T) {
	svc, _ := newTestLedger(t)
	orderID, sub := confirmTestOrder(t, svc)

	for _, status := range []models.DeliveryStatus{
		models.DeliveryStatusPacked,
		models.DeliveryStatusOutForDelivery,
		models.DeliveryStatusDelivered,
	} {
		if err := svc.UpdateDeliveryStatus(orderID, status); err != nil {
			t.Fatalf("advance to %s: %v", status, err)
		}
	}

	got := reloadSubmission(t, svc, sub.ID)
	if *got.DeliveryStatus != models.DeliveryStatusDelivered {
		t.Errorf("delivery status = %s, want Delivered", *got.DeliveryStatus)
	}
	if got.Status != models.SubmissionStatusSold {
		t.Errorf("submission status = %s, want Sold", got.Status)
	}

	ownerPts := reloadUser(t, svc, "owner").Points
	buyerPts := reloadUser(t, svc, "buyer").Points

	// A fourth Delivered request must not settle again
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusDelivered); err != nil {
		t.Fatalf("repeat Delivered: %v", err)
	}
	if got := reloadUser(t, svc, "owner").Points; got != ownerPts {
		t.Errorf("owner points changed on repeat: %d → %d", ownerPts, got)
	}
	if got := reloadUser(t, svc, "buyer").Points; got != buyerPts {
		t.Errorf("buyer points changed on repeat: %d → %d", buyerPts, got)
	}

	// Exactly one bonus pair was paid: owner 25 (e-waste) + 10, buyer 10
	if ownerPts != 35 {
		t.Errorf("owner points = %d, want 35", ownerPts)
	}
	if buyerPts != 10 {
		t.Errorf("buyer points = %d, want 10", buyerPts)
	}
}

func TestDeliveryTransitionsEnforced(t *testing.T) {
	svc, _ := newTestLedger(t)
	orderID, sub := confirmTestOrder(t, svc)

	// No stage skipping
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusOutForDelivery); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Confirmed→Out for Delivery = %v, want ErrInvalidTransition", err)
	}
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusDelivered); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Confirmed→Delivered = %v, want ErrInvalidTransition", err)
	}

	// Status was never corrupted
	if got := reloadSubmission(t, svc, sub.ID); *got.DeliveryStatus != models.DeliveryStatusConfirmed {
		t.Errorf("status corrupted to %s", *got.DeliveryStatus)
	}

	// Cancellation is allowed from Confirmed and Packed only
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusPacked); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusOutForDelivery); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Out for Delivery→Cancelled = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelledOrderNeverSettles(t *testing.T) {
	svc, _ := newTestLedger(t)
	orderID, sub := confirmTestOrder(t, svc)

	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusPacked); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Cancelled→Packed = %v, want ErrInvalidTransition", err)
	}
	if got := reloadSubmission(t, svc, sub.ID); got.Status == models.SubmissionStatusSold {
		t.Error("cancelled order was settled")
	}
	if got := reloadUser(t, svc, "buyer").Points; got != 0 {
		t.Errorf("buyer points = %d, want 0", got)
	}
}

func TestVerifyOTP(t *testing.T) {
	svc, _ := newTestLedger(t)
	orderID, sub := confirmTestOrder(t, svc)
	svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusPacked)
	svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusOutForDelivery)

	otp := *reloadSubmission(t, svc, sub.ID).OTP

	wrong := "0000"
	if wrong == otp {
		wrong = "0001"
	}
	if err := svc.VerifyOTP(orderID, wrong); !errors.Is(err, ErrOtpMismatch) {
		t.Fatalf("wrong code = %v, want ErrOtpMismatch", err)
	}
	if got := reloadSubmission(t, svc, sub.ID); *got.DeliveryStatus != models.DeliveryStatusOutForDelivery {
		t.Errorf("status changed on mismatch: %s", *got.DeliveryStatus)
	}

	if err := svc.VerifyOTP(orderID, otp); err != nil {
		t.Fatalf("correct code: %v", err)
	}
	got := reloadSubmission(t, svc, sub.ID)
	if *got.DeliveryStatus != models.DeliveryStatusDelivered {
		t.Errorf("status = %s, want Delivered", *got.DeliveryStatus)
	}
	if got.Status != models.SubmissionStatusSold {
		t.Errorf("submission not settled: %s", got.Status)
	}
}

func TestVerifyOTPAttemptLimit(t *testing.T) {
	svc, _ := newTestLedger(t)
	orderID, sub := confirmTestOrder(t, svc)
	svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusPacked)
	svc.UpdateDeliveryStatus(orderID, models.DeliveryStatusOutForDelivery)

	otp := *reloadSubmission(t, svc, sub.ID).OTP
	wrong := "0000"
	if wrong == otp {
		wrong = "0001"
	}

	for i := 0; i < MaxOTPAttempts; i++ {
		if err := svc.VerifyOTP(orderID, wrong); !errors.Is(err, ErrOtpMismatch) {
			t.Fatalf("attempt %d = %v, want ErrOtpMismatch", i+1, err)
		}
	}
	// Even the correct code is rejected once the limit is hit
	if err := svc.VerifyOTP(orderID, otp); !errors.Is(err, ErrOtpLocked) {
		t.Errorf("locked order = %v, want ErrOtpLocked", err)
	}
}

func TestVerifyOTPUnknownOrder(t *testing.T) {
	svc, _ := newTestLedger(t)
	if err := svc.VerifyOTP("ORD-NOPE", "1234"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
