package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"prizepool/domain/interfaces"
)

// cryptoRandomness samples from the operating system's CSPRNG
type cryptoRandomness struct{}

// NewCryptoRandomness creates a randomness source backed by crypto/rand
func NewCryptoRandomness() interfaces.RandomnessSource {
	return cryptoRandomness{}
}

// Sample returns a uniform index in [0, n)
func (cryptoRandomness) Sample(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot sample from %d candidates", n)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	index, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %w", err)
	}
	return int(index.Int64()), nil
}
