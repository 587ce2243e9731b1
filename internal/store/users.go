package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/textnorm"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account.
func (s *Store) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &models.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: password.Hash,
		FullName:     textnorm.Clean(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         models.RoleCustomer,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.User{}, 0, map[string]any{"email": u.Email})
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
		return errors.Wrap(tx.Create(u).Error, "create user")
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user whose email and password match.
func (s *Store) Authenticate(ctx context.Context, email, plaintext string) (*models.User, error) {
	var u models.User
	err := s.conn(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	ok, err := (&models.Password{Hash: u.PasswordHash}).Matches(plaintext)
	if err != nil {
		return nil, errors.Wrap(err, "check password")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return get[models.User](s.conn(ctx), id, ErrUserNotFound)
}

func (s *Store) UpdateProfile(ctx context.Context, id uint, in models.ProfileInput) (*models.User, error) {
	var u *models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if u, err = get[models.User](tx, id, ErrUserNotFound); err != nil {
			return err
		}
		u.FullName, u.Phone = textnorm.Clean(in.FullName), strings.TrimSpace(in.Phone)
		return errors.Wrap(tx.Save(u).Error, "update profile")
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates the admin account, or resets its password and role
// if the email is already registered.
func (s *Store) EnsureAdmin(ctx context.Context, email, plaintext string) (*models.User, error) {
	var password models.Password
	if err := password.Set(plaintext); err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	email = normalizeEmail(email)
	var u models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&u).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = models.User{Email: email, FullName: "Administrator"}
		case err != nil:
			return errors.Wrap(err, "load admin")
		}
		u.PasswordHash, u.Role = password.Hash, models.RoleAdmin
		return errors.Wrap(tx.Save(&u).Error, "save admin")
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
