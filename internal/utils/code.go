package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewNumericCode returns a uniformly random zero-padded decimal code.
func NewNumericCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to read random code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
