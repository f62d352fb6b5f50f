package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"recipe-service/models"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = "id, username, password_digest, image_url, bio, created_at"

// UserRepository is the credential store: users and their password digests.
type UserRepository struct {
	db         *sqlx.DB
	bcryptCost int
}

// NewUserRepository creates a user repository hashing with bcryptCost.
func NewUserRepository(db *sqlx.DB, bcryptCost int) *UserRepository {
	return &UserRepository{
		db:         db,
		bcryptCost: bcryptCost,
	}
}

// Register hashes the password and inserts a new user in one transaction.
// Username uniqueness is left to the database constraint so concurrent
// signups for the same name cannot both succeed; the loser gets
// models.ErrDuplicateUsername.
func (r *UserRepository) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if strings.TrimSpace(reg.Username) == "" {
		return nil, models.NewValidationError("username", "is required")
	}
	if reg.Password == "" {
		return nil, models.NewValidationError("password", "is required")
	}

	digest, err := models.NewPasswordDigest(reg.Password, r.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return nil, models.NewPersistenceError("hash password", err)
	}

	user := &models.User{
		Username:       reg.Username,
		PasswordDigest: digest,
		ImageURL:       reg.ImageURL,
		Bio:            reg.Bio,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, models.NewPersistenceError("begin register", err)
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, &user.ID, tx.Rebind(
		"INSERT INTO users (username, password_digest, image_url, bio, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		user.Username, user.PasswordDigest, user.ImageURL, user.Bio, user.CreatedAt)
	if err != nil {
		return nil, registerError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, registerError(err)
	}
	return user, nil
}

func registerError(err error) error {
	if isUniqueViolation(err) {
		return models.ErrDuplicateUsername
	}
	return models.NewPersistenceError("register user", err)
}

// FindByUsername returns the user or nil when none matches.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT "+userColumns+" FROM users WHERE username = ?"), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewPersistenceError("find user by username", err)
	}
	return &user, nil
}

// FindByID returns the user or nil when none matches.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewPersistenceError("find user by id", err)
	}
	return &user, nil
}

// VerifyPassword reports whether candidate matches the user's digest.
func (r *UserRepository) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil {
		return false
	}
	return user.PasswordDigest.Matches(candidate)
}
