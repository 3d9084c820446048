package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/joy095/bayelite/logger"
)

const otpDigits = 6

// GenerateSecureOTP returns a random six-digit ride code from crypto/rand.
func GenerateSecureOTP() string {
	const otpChars = "0123456789"
	code := make([]byte, otpDigits)
	max := big.NewInt(int64(len(otpChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			logger.ErrorLogger.Errorf("Error generating secure OTP: %v", err)
			return "000000"
		}
		code[i] = otpChars[n.Int64()]
	}
	return string(code)
}
