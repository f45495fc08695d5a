package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
