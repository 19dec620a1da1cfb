package domain

import "errors"

var (
	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionExpired      = errors.New("session expired")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCodeNotFound        = errors.New("invalid or expired verification code")
	ErrTooManyRequests     = errors.New("too many requests, please try again later")
	ErrInternal            = errors.New("internal server error")
)
