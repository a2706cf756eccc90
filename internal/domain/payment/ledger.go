package payment

import (
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// StatusEpsilon is the currency tolerance when comparing the paid sum
// against the invoice total.
var StatusEpsilon = decimal.NewFromFloat(0.01)

// PaidSum returns the total amount across attempts in Paid state
func PaidSum(attempts []*PaymentAttempt) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range attempts {
		if a.PaymentStatus == types.PaymentStatusPaid {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}

// FoldStatus derives the authoritative invoice payment status from the
// full attempt history. It is a pure, order-independent fold: replaying
// the same attempt set always reproduces the same status, so the invoice
// flag can be re-derived for audit at any time.
func FoldStatus(attempts []*PaymentAttempt, invoiceTotal decimal.Decimal) types.PaymentStatus {
	paidSum := PaidSum(attempts)

	if paidSum.Add(StatusEpsilon).GreaterThanOrEqual(invoiceTotal) {
		// a zero-total invoice is settled with no payments at all; any
		// other total needs at least one paid attempt
		if paidSum.IsPositive() || invoiceTotal.IsZero() {
			return types.PaymentStatusPaid
		}
	}
	if paidSum.GreaterThan(decimal.Zero) {
		return types.PaymentStatusPartial
	}

	anyFailed := false
	for _, a := range attempts {
		switch a.PaymentStatus {
		case types.PaymentStatusPending:
			return types.PaymentStatusPending
		case types.PaymentStatusFailed:
			anyFailed = true
		}
	}
	if anyFailed {
		return types.PaymentStatusFailed
	}
	return types.PaymentStatusPending
}
