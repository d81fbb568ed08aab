package forms

import "net/url"

// PasswordChangeInput is the posted "Alterar senha" form.
type PasswordChangeInput struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required,min=12,max=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// DecodePasswordChange reads a PasswordChangeInput from posted values.
// Passwords are not trimmed.
func DecodePasswordChange(v url.Values) PasswordChangeInput {
	return PasswordChangeInput{
		CurrentPassword: v.Get("current_password"),
		NewPassword:     v.Get("new_password"),
		ConfirmPassword: v.Get("confirm_password"),
	}
}
