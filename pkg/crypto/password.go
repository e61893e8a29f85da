package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// OTP codes are uniform in [OTPMin, OTPMax].
	OTPMin = 100000
	OTPMax = 999999
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomInt                  = rand.Int
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateOTP returns a 6-digit one-time passcode.
func GenerateOTP() (int64, error) {
	n, err := randomInt(rand.Reader, big.NewInt(OTPMax-OTPMin+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate otp: %w", err)
	}
	return OTPMin + n.Int64(), nil
}
