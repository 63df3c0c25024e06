package service

import "errors"

// Flow specific errors used by handlers for stable error_type mapping.
var (
	// Setup token / bootstrap flow
	ErrTokenAlreadyUsed      = errors.New("token_already_used")
	ErrSetupAlreadyCompleted = errors.New("setup_already_completed")
	ErrTokenMismatch         = errors.New("token_mismatch")
	ErrWeakPassword          = errors.New("weak_password")

	// OTP verification flow
	ErrNoActiveCode    = errors.New("no_active_code")
	ErrCodeExpired     = errors.New("code_expired")
	ErrContactMismatch = errors.New("contact_mismatch")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrTooManyAttempts = errors.New("too_many_attempts")
	ErrResendCooldown  = errors.New("resend_cooldown")
	ErrLocked          = errors.New("account_locked")

	// Accounts and registrations
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrProgramFull        = errors.New("program_full")
	ErrAgeIneligible      = errors.New("age_ineligible")
	ErrAlreadyRegistered  = errors.New("already_registered")
)
