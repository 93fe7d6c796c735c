package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"gorm.io/gorm"
)

// AuthService handles portal accounts and resolves the reviewer role.
// Reviewer capability is configuration, not data: an email is a reviewer
// because deployment config says so, never because of anything a user set.
type AuthService struct {
	db             *gorm.DB
	reviewerEmails map[string]bool
}

// NewAuthService creates an AuthService with the configured reviewer email set
func NewAuthService(db *gorm.DB, reviewerEmails []string) *AuthService {
	set := make(map[string]bool, len(reviewerEmails))
	for _, email := range reviewerEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = true
		}
	}
	return &AuthService{db: db, reviewerEmails: set}
}

// hashPassword hashes a password with a hex salt prepended before digesting
func hashPassword(saltHex, password string) string {
	sum := sha256.Sum256([]byte(saltHex + password))
	return hex.EncodeToString(sum[:])
}

func newSalt() (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

// Register creates a portal account
func (s *AuthService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if fullName == "" || email == "" || req.Password == "" {
		return nil, apperrors.ValidationError("MISSING_FIELDS", "full name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.ValidationError("INVALID_EMAIL", "email address is not valid")
	}
	if len(fullName) > models.MaxNameLength || len(email) > models.MaxEmailLength {
		return nil, apperrors.ValidationError("FIELD_TOO_LONG", "full name or email exceeds the allowed length")
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewAPIError(apperrors.ErrorTypeConflict, "DUPLICATE_EMAIL",
			"an account with this email already exists", 409)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.DatabaseError("find user", err)
	}

	salt, err := newSalt()
	if err != nil {
		return nil, apperrors.NewAPIErrorWithCause(apperrors.ErrorTypeInternal, "SALT_GENERATION_FAILED",
			"failed to generate password salt", 500, err)
	}

	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: hashPassword(salt, req.Password),
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.DatabaseError("create user", err)
	}

	return &models.AuthResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Reviewer: s.reviewerEmails[user.Email],
	}, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so the response does not leak which one failed.
func (s *AuthService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.InvalidCredentialsError()
		}
		return nil, apperrors.DatabaseError("find user", err)
	}

	if hashPassword(user.PasswordSalt, req.Password) != user.PasswordHash {
		return nil, apperrors.InvalidCredentialsError()
	}

	return &models.AuthResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Reviewer: s.reviewerEmails[user.Email],
	}, nil
}

// GetUser resolves a user id to its authenticated identity and role
func (s *AuthService) GetUser(userID uint) (*models.AuthenticatedUser, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("user")
		}
		return nil, apperrors.DatabaseError("find user", err)
	}

	role := models.RoleApplicant
	if s.reviewerEmails[user.Email] {
		role = models.RoleReviewer
	}
	return &models.AuthenticatedUser{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
	}, nil
}

// IsReviewer reports whether a user id belongs to a configured reviewer
func (s *AuthService) IsReviewer(userID uint) bool {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return false
	}
	return s.reviewerEmails[user.Email]
}
