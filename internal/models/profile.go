package models

import "time"

// RoleAdmin is the only role with elevated privileges
const RoleAdmin = "admin"

// Profile is the public face of a user. Roles live in user_roles, not here.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	AvatarURL string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio       string    `json:"bio,omitempty" db:"bio"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PublicProfile is a profile page: the profile, its published work and follow counts
type PublicProfile struct {
	Profile
	Articles       []*Article `json:"articles"`
	FollowersCount int        `json:"followers_count"`
	FollowingCount int        `json:"following_count"`
	IsFollowing    bool       `json:"is_following"`
}

// UserSummary is a row of the admin users tab
type UserSummary struct {
	Profile
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// UpdateProfileRequest carries the self-editable profile fields
type UpdateProfileRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=20"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	Bio       string `json:"bio" validate:"max=500"`
}

// Follow is a directed follow edge
type Follow struct {
	FollowerID  string    `json:"follower_id" db:"follower_id"`
	FollowingID string    `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
