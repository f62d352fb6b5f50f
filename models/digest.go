package models

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordDigest is a bcrypt hash of a user's password. The only way to build
// one from a plaintext is NewPasswordDigest; there is no accessor for the raw
// bytes outside of the database driver.
type PasswordDigest struct {
	hash []byte
}

var errDigestNotSerializable = errors.New("password digest is not serializable")

// NewPasswordDigest hashes password with the given bcrypt cost.
func NewPasswordDigest(password string, cost int) (PasswordDigest, error) {
	if password == "" {
		return PasswordDigest{}, errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return PasswordDigest{}, fmt.Errorf("hash password: %w", err)
	}
	return PasswordDigest{hash: hash}, nil
}

// IsZero reports whether the digest holds no hash.
func (d PasswordDigest) IsZero() bool {
	return len(d.hash) == 0
}

// Matches reports whether candidate hashes to d. bcrypt compares in constant time.
func (d PasswordDigest) Matches(candidate string) bool {
	if d.IsZero() {
		return false
	}
	return bcrypt.CompareHashAndPassword(d.hash, []byte(candidate)) == nil
}

func (d PasswordDigest) String() string {
	return "[REDACTED]"
}

func (d PasswordDigest) GoString() string {
	return "models.PasswordDigest{[REDACTED]}"
}

// MarshalJSON always fails so a digest can't leak through an encoder that
// ignores the json:"-" tag on User.
func (d PasswordDigest) MarshalJSON() ([]byte, error) {
	return nil, errDigestNotSerializable
}

// Value implements driver.Valuer.
func (d PasswordDigest) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, errors.New("password digest is empty")
	}
	return string(d.hash), nil
}

// Scan implements sql.Scanner.
func (d *PasswordDigest) Scan(src any) error {
	switch v := src.(type) {
	case string:
		d.hash = []byte(v)
	case []byte:
		d.hash = append([]byte(nil), v...)
	case nil:
		d.hash = nil
	default:
		return fmt.Errorf("unsupported password digest type %T", src)
	}
	return nil
}
