package models

import (
	"time"
)

// User is an authentication identity. Its ID is shared with the profile.
type User struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty" db:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// Confirmed reports whether the user finished email verification
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// SignUpRequest is the registration form
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=20"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SignInRequest is the login form
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// VerifyCodeRequest confirms a sign-up with the emailed code
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// EmailRequest carries only an address (resend, forgot password)
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password using an emailed reset code
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required,len=6,numeric"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Session is returned after a successful sign-in or verification
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *Me       `json:"user"`
}

// Me describes the signed-in user
type Me struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
	IsAdmin bool     `json:"is_admin"`
}

// Stats backs the /metrics endpoint
type Stats struct {
	Articles map[ArticleStatus]int `json:"articles"`
	Profiles int                   `json:"profiles"`
	Topics   int                   `json:"topics"`
	Tags     int                   `json:"tags"`
}
