package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/models"
)

// OTPValidity is the lifetime of both verification and password-reset codes.
const OTPValidity = 10 * time.Minute

const (
	otpFloor = 100000
	otpSpan  = 900000
)

// GenerateOTP returns a six-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpFloor+n.Int64(), 10), nil
}

// OTPExpiryFrom returns the expiry of a code issued at now.
func OTPExpiryFrom(now time.Time) time.Time {
	return now.Add(OTPValidity)
}

// VerifyOTP checks code against the account's outstanding OTP. It never
// mutates the account; consuming the code is the caller's job.
func VerifyOTP(account *models.Account, code string, now time.Time) error {
	if !account.HasPendingOTP() {
		return apperror.NoOtpPending()
	}
	if now.After(*account.OTPExpiry) {
		return apperror.OtpExpired()
	}
	if *account.OTP != code {
		return apperror.OtpMismatch()
	}
	return nil
}
