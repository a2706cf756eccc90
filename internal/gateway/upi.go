package gateway

import (
	"fmt"
	"net/url"

	"github.com/gstflow/gstflow/internal/gst"
	"github.com/shopspring/decimal"
)

// BuildUPIIntent builds a upi://pay deep link for the merchant VPA. The
// same string doubles as the QR payload: any UPI app can scan it.
func BuildUPIIntent(vpa, merchantName string, amount decimal.Decimal, note string) string {
	params := url.Values{}
	params.Set("pa", vpa)
	params.Set("pn", merchantName)
	params.Set("am", gst.Round2(amount).StringFixed(2))
	params.Set("cu", "INR")
	if note != "" {
		params.Set("tn", note)
	}
	return fmt.Sprintf("upi://pay?%s", params.Encode())
}
