package services

import (
	"fmt"

	"github.com/vncsmyrnk/passport/internal/core/ports"
)

func verifyEmailTemplate(to, url string) ports.Email {
	return ports.Email{
		To:      to,
		Subject: "Verify your email address",
		Text:    fmt.Sprintf("Click on the link to verify your email address: %s", url),
		HTML: fmt.Sprintf(
			`<!doctype html><html><body><p>Click on the link below to verify your email address.</p><p><a href="%s">Verify email</a></p></body></html>`,
			url),
	}
}

func passwordResetTemplate(to, url string) ports.Email {
	return ports.Email{
		To:      to,
		Subject: "Password reset request",
		Text:    fmt.Sprintf("Click on the link to reset your password: %s", url),
		HTML: fmt.Sprintf(
			`<!doctype html><html><body><p>Click on the link below to reset your password.</p><p><a href="%s">Reset password</a></p></body></html>`,
			url),
	}
}
