package store

import (
	"context"
	"errors"

	"github.com/samanvaya/samanvaya/pkg/auth"
	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/policy"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown user or a
// wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInput carries a cleartext password that is hashed before it reaches
// the user collection.
type UserInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// CreateUser hashes the password and inserts the user.
func (s *SQLiteStore) CreateUser(ctx context.Context, actor policy.Identity, in UserInput) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ClassUser, policy.Create); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, errs.Invalid("password", "failed 'required' constraint")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.fail("hash password", err)
	}

	return s.Users().Create(ctx, actor, &models.User{
		Username: in.Username,
		Password: hash,
		Role:     in.Role,
	})
}

// UpdateUser replaces username and role. The password is only replaced when
// a new one is given.
func (s *SQLiteStore) UpdateUser(ctx context.Context, actor policy.Identity, id uint, in UserInput) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ClassUser, policy.Edit); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Role:     in.Role,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, s.fail("hash password", err)
		}
		user.Password = hash
	}

	return s.Users().Update(ctx, actor, id, user)
}

// Authenticate verifies the password of a live user and returns the
// identity it acts under.
func (s *SQLiteStore) Authenticate(ctx context.Context, username, password string) (policy.Identity, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND is_deleted = ?", username, false).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Identity{}, ErrInvalidCredentials
		}
		return policy.Identity{}, s.fail("authenticate", err)
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return policy.Identity{}, ErrInvalidCredentials
	}

	return policy.Identity{
		UserID: user.ID,
		Role:   user.Role,
	}, nil
}
