package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/models"
)

var errPasswordTooLong = BadRequest(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))

// SignupInput is the data needed to register an account
type SignupInput struct {
	DisplayName string
	Email       string
	Password    string
	Role        models.Role
}

// AuthResult is an authenticated principal plus the token issued for it
type AuthResult struct {
	Principal   models.Principal
	AccessToken string
}

// PublicUser is the public view of an account
type PublicUser struct {
	User          models.User
	LawyerProfile *LawyerView
}

// AccountService registers and authenticates users
type AccountService struct {
	db     *gorm.DB
	codec  *TokenCodec
	hasher *PasswordHasher
}

// NewAccountService creates a new account service
func NewAccountService(db *gorm.DB, codec *TokenCodec, hasher *PasswordHasher) *AccountService {
	return &AccountService{db: db, codec: codec, hasher: hasher}
}

// Signup creates an account and returns a token for it.
// Emails are compared exactly, case included.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.DisplayName == "" || in.Email == "" || in.Password == "" {
		return nil, BadRequest("display_name, email and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !in.Role.Valid() {
		return nil, BadRequest("role must be Client or Lawyer")
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, errPasswordTooLong
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errPasswordTooLong
		}
		return nil, err
	}

	user := models.User{
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(&user).Error; err != nil {
			// the unique index decides when two signups race
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(user.Principal())
	if err != nil {
		return nil, err
	}

	return &AuthResult{Principal: user.Principal(), AccessToken: token}, nil
}

// Login checks credentials. Unknown email and wrong password yield the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			// unknown emails pay the same bcrypt cost as wrong passwords
			s.hasher.CheckAbsent(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Check(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Principal())
	if err != nil {
		return nil, err
	}

	return &AuthResult{Principal: user.Principal(), AccessToken: token}, nil
}

// GetPublicUser returns an account and, for lawyers, their profile.
func (s *AccountService) GetPublicUser(ctx context.Context, id uint) (*PublicUser, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	out := &PublicUser{User: user}

	var profile models.LawyerProfile
	err := db.Preload("User").Preload("Specialties", orderByID).
		Where("user_id = ?", id).First(&profile).Error
	switch {
	case err == nil:
		view := newLawyerView(profile)
		out.LawyerProfile = &view
	case !isNotFound(err):
		return nil, fmt.Errorf("failed to load lawyer profile: %w", err)
	}

	return out, nil
}
