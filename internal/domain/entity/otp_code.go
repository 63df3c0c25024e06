package entity

import "time"

// OTP purposes. Closed set; unknown values are rejected at the API boundary.
const (
	OTPPurposeEmailVerification = "email_verification"
	OTPPurposePhoneVerification = "phone_verification"
	OTPPurposeAdminInvitation   = "admin_invitation"
	OTPPurposePasswordReset     = "password_reset"
	OTPPurposeTwoFactorLogin    = "2fa_login"
)

// IsValidOTPPurpose reports whether purpose belongs to the closed set.
func IsValidOTPPurpose(purpose string) bool {
	switch purpose {
	case OTPPurposeEmailVerification, OTPPurposePhoneVerification,
		OTPPurposeAdminInvitation, OTPPurposePasswordReset, OTPPurposeTwoFactorLogin:
		return true
	}
	return false
}

// OTPCode stores hashed one-time codes scoped to a user, a purpose and a
// delivery contact. At most one live (unexpired, unconsumed) row exists per
// (user_id, purpose); issuing a new code supersedes the previous one.
type OTPCode struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index:idx_otp_codes_user_purpose" json:"user_id"`
	Purpose      string     `gorm:"size:30;not null;index:idx_otp_codes_user_purpose" json:"purpose"`
	Contact      string     `gorm:"size:100;not null" json:"contact"`
	CodeHash     string     `gorm:"size:64;not null" json:"-"`
	CodeSalt     string     `gorm:"size:64;not null" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	AttemptCount int        `gorm:"not null;default:0" json:"attempt_count"`
	MaxAttempts  int        `gorm:"not null;default:5" json:"max_attempts"`
	LastSentAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"last_sent_at"`
	ConsumedAt   *time.Time `gorm:"index" json:"consumed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}

func (o *OTPCode) IsConsumed() bool {
	return o.ConsumedAt != nil
}

func (o *OTPCode) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// AttemptsRemaining never goes below zero.
func (o *OTPCode) AttemptsRemaining() int {
	left := o.MaxAttempts - o.AttemptCount
	if left < 0 {
		return 0
	}
	return left
}
