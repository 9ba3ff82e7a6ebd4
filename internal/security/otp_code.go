package security

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	otpCodeMin = 100000
	otpCodeMax = 999999
)

// GenerateOTPCode draws a 6-digit code uniformly from the full six-digit
// decimal space (100000-999999).
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeMax-otpCodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpCodeMin, 10), nil
}
