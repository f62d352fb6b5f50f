package models

import "time"

// User represents a registered account.
// PasswordDigest is bcrypt output; it is never serialized in JSON responses.
type User struct {
	ID             int64          `json:"id" db:"id"`
	Username       string         `json:"username" db:"username"`
	PasswordDigest PasswordDigest `json:"-" db:"password_digest"`
	ImageURL       *string        `json:"image_url" db:"image_url"`
	Bio            *string        `json:"bio" db:"bio"`
	CreatedAt      time.Time      `json:"-" db:"created_at"`
}

// Profile is the public view of a user returned by signup, login and
// check_session, and embedded in every recipe.
type Profile struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		ImageURL: u.ImageURL,
		Bio:      u.Bio,
	}
}

// SignupRequest is the POST /signup body.
type SignupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"` // Plaintext; hashed before it reaches storage
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the input to the credential store.
type Registration struct {
	Username string
	Password string
	ImageURL *string
	Bio      *string
}
