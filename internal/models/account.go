package models

import (
	"time"
)

// Account is a registered user identity.
//
// OTP and OTPExpiry are set and cleared together; use SetOTP and ClearOTP
// rather than assigning them directly.
type Account struct {
	BaseModel
	Name           string     `gorm:"size:100;not null" json:"name"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	City           string     `gorm:"size:100" json:"city"`
	Phone          string     `gorm:"size:20" json:"phone"`
	PasswordDigest string     `gorm:"not null" json:"-"`
	IsVerified     bool       `gorm:"not null;default:false" json:"isVerified"`
	OTP            *string    `gorm:"size:6" json:"-"`
	OTPExpiry      *time.Time `json:"-"`
	IsActive       bool       `gorm:"not null;default:true" json:"isActive"`
	IsDeleted      bool       `gorm:"not null;default:false" json:"isDeleted"`
}

// SetOTP records an outstanding code, replacing any earlier one.
func (a *Account) SetOTP(code string, expiry time.Time) {
	a.OTP = &code
	a.OTPExpiry = &expiry
}

// ClearOTP consumes the outstanding code.
func (a *Account) ClearOTP() {
	a.OTP = nil
	a.OTPExpiry = nil
}

// HasPendingOTP reports whether a code is outstanding, expired or not.
func (a *Account) HasPendingOTP() bool {
	return a.OTP != nil && a.OTPExpiry != nil
}
