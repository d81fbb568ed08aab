package forms

import "net/url"

// LoginInput is the posted sign-in form.
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// DecodeLogin reads a LoginInput from posted values.
func DecodeLogin(v url.Values) LoginInput {
	return LoginInput{
		Email:    value(v, "email"),
		Password: v.Get("password"),
	}
}
