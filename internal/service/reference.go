package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceLength   = 6
)

var referenceBase = big.NewInt(int64(len(referenceAlphabet)))

// NewReference returns prefix followed by six upper-case base-36 characters.
func NewReference(prefix string) (string, error) {
	buf := make([]byte, referenceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, referenceBase)
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return prefix + string(buf), nil
}
