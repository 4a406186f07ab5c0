package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// PolicyNumberFunc produces a policy number for the given instant.
type PolicyNumberFunc func(now time.Time) (string, error)

var policySuffixSpace = big.NewInt(10000)

// generatePolicyNumber returns POL-<13-digit epoch millis>-<4-digit zero-padded random>.
func generatePolicyNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, policySuffixSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("POL-%013d-%04d", now.UnixMilli(), n.Int64()), nil
}
