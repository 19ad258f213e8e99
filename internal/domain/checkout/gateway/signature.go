package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	rzputils "github.com/razorpay/razorpay-go/utils"
)

// Sign returns hex(HMAC-SHA256(secret, orderID|paymentID)), the
// signature the checkout widget hands back on completion.
func Sign(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks the completion triple with the SDK verifier.
// An empty secret or signature never verifies.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, secret)
}
