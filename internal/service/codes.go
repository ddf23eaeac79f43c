package service

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const otpDigits = 6

var otpModulus = big.NewInt(1_000_000)

// GenerateOTP draws a fixed-width numeric one-time code uniformly at random.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpModulus)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// GenerateRecoveryToken returns an opaque unique 128-bit token for reset
// links on the email channel.
func GenerateRecoveryToken() string {
	return uuid.NewString()
}

// GenerateInvestorID builds the public account identifier assigned when
// onboarding completes, e.g. "INV-492018375".
func GenerateInvestorID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		// same failure mode as uuid.NewString: no entropy source
		panic(err)
	}
	return fmt.Sprintf("INV-%09d", n)
}

// SecretsEqual compares a submitted secret against the stored one in
// constant time.
func SecretsEqual(submitted, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
