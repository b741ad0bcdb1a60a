package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const orderPrefix = "BF"

// GenerateOrderNumber returns "BF" followed by six digits, the reference
// printed on the order confirmation.
func GenerateOrderNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", orderPrefix, n.Int64()), nil
}
