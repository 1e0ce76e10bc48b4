package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// OTPGenerator produces one-time codes
type OTPGenerator interface {
	Generate() (string, error)
}

// RandomOTPGenerator draws a uniform 6 digit code in [100000, 999999] from crypto/rand
type RandomOTPGenerator struct{}

// Generate returns a new code
func (RandomOTPGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
