package types

import (
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/samber/lo"
)

// PaymentStatus represents the settlement state of an invoice or of a single
// payment attempt. Attempts only ever hold PENDING, PAID or FAILED; PARTIAL
// exists solely as a derived invoice-level state.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusPartial,
		PaymentStatusPaid,
		PaymentStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Please provide a valid payment status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateForAttempt rejects statuses that are only meaningful at the
// invoice level
func (s PaymentStatus) ValidateForAttempt() error {
	if s == PaymentStatusPartial {
		return ierr.NewError("invalid payment attempt status").
			WithHint("Payment attempts cannot be partially paid").
			Mark(ierr.ErrValidation)
	}
	return s.Validate()
}

// IsTerminal reports whether the status can no longer change for an attempt
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed
}

// PaymentMethodType represents the type of payment method
type PaymentMethodType string

const (
	PaymentMethodTypeUPI     PaymentMethodType = "UPI"
	PaymentMethodTypeOffline PaymentMethodType = "OFFLINE"
)

func (s PaymentMethodType) String() string {
	return string(s)
}

func (s PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{
		PaymentMethodTypeUPI,
		PaymentMethodTypeOffline,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment method type").
			WithHint("Please provide a valid payment method type").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentGatewayType represents the supported UPI payment gateways
type PaymentGatewayType string

const (
	PaymentGatewayTypeRazorpay  PaymentGatewayType = "razorpay"
	PaymentGatewayTypePhonePe   PaymentGatewayType = "phonepe"
	PaymentGatewayTypePaytm     PaymentGatewayType = "paytm"
	PaymentGatewayTypeGooglePay PaymentGatewayType = "googlepay"
)

func (s PaymentGatewayType) String() string {
	return string(s)
}

func (s PaymentGatewayType) Validate() error {
	allowed := []PaymentGatewayType{
		PaymentGatewayTypeRazorpay,
		PaymentGatewayTypePhonePe,
		PaymentGatewayTypePaytm,
		PaymentGatewayTypeGooglePay,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment gateway").
			WithHint("Please provide a supported payment gateway").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
