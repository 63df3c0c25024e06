package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOTPPurpose(t *testing.T) {
	valid := []string{
		OTPPurposeEmailVerification,
		OTPPurposePhoneVerification,
		OTPPurposeAdminInvitation,
		OTPPurposePasswordReset,
		OTPPurposeTwoFactorLogin,
	}
	for _, p := range valid {
		assert.True(t, IsValidOTPPurpose(p), p)
	}
	assert.False(t, IsValidOTPPurpose("magic_link"))
	assert.False(t, IsValidOTPPurpose(""))
}

func TestOTPCode_IsExpired(t *testing.T) {
	now := time.Now()
	code := &OTPCode{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, code.IsExpired(now))
	assert.True(t, code.IsExpired(now.Add(2*time.Minute)))
}

func TestOTPCode_AttemptsRemaining_NeverNegative(t *testing.T) {
	code := &OTPCode{MaxAttempts: 5, AttemptCount: 3}
	assert.Equal(t, 2, code.AttemptsRemaining())

	code.AttemptCount = 5
	assert.Equal(t, 0, code.AttemptsRemaining())

	// Гонка двух конкурентных инкрементов может перевести счетчик за максимум
	code.AttemptCount = 7
	assert.Equal(t, 0, code.AttemptsRemaining())
}

func TestOTPCode_IsConsumed(t *testing.T) {
	code := &OTPCode{}
	assert.False(t, code.IsConsumed())

	now := time.Now()
	code.ConsumedAt = &now
	assert.True(t, code.IsConsumed())
}
