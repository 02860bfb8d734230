package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const referenceLength = 20
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	BookingPrefix      = "BK"
	SubscriptionPrefix = "SB"
	PayoutPrefix       = "PO"
)

// GenerateReference draws a payment reference such as "BK-7Q2...". Every call
// reads fresh bytes from crypto/rand.
func GenerateReference(prefix string) (string, error) {
	b := make([]byte, referenceLength)
	max := big.NewInt(int64(len(letterBytes)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		b[i] = letterBytes[n.Int64()]
	}
	return prefix + "-" + string(b), nil
}

// GenerateToken returns a random alphanumeric token for one-time links.
func GenerateToken(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(letterBytes)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = letterBytes[n.Int64()]
	}
	return string(b), nil
}
