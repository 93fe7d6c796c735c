package services

import (
	"testing"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, []string{"rex@example.com"})

	registered, err := service.Register(&models.RegisterRequest{
		FullName: "Ada Applicant",
		Email:    "Ada@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	// Email is normalized to lower case
	assert.Equal(t, "ada@example.com", registered.Email)
	assert.False(t, registered.Reviewer)
	assert.NotZero(t, registered.UserID)

	loggedIn, err := service.Login(&models.LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, loggedIn.UserID)
}

func TestAuthService_PasswordNotStoredInClear(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, nil)

	_, err := service.Register(&models.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)

	assert.NotContains(t, user.PasswordHash, "hunter22")
	assert.NotEmpty(t, user.PasswordSalt)
	assert.Equal(t, hashPassword(user.PasswordSalt, "hunter22"), user.PasswordHash)
}

func TestAuthService_LoginFailures(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, nil)

	_, err := service.Register(&models.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = service.Login(&models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, "INVALID_CREDENTIALS"))

	// Unknown email yields the same error as a wrong password
	_, err = service.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.True(t, apperrors.HasCode(err, "INVALID_CREDENTIALS"))
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, nil)

	_, err := service.Register(&models.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = service.Register(&models.RegisterRequest{
		FullName: "Imposter", Email: "ADA@example.com", Password: "other",
	})
	assert.True(t, apperrors.HasCode(err, "DUPLICATE_EMAIL"))
}

func TestAuthService_Validation(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, nil)

	_, err := service.Register(&models.RegisterRequest{FullName: "", Email: "a@b.c", Password: "x"})
	assert.True(t, apperrors.HasCode(err, "MISSING_FIELDS"))

	_, err = service.Register(&models.RegisterRequest{FullName: "Ada", Email: "not-an-email", Password: "x"})
	assert.True(t, apperrors.HasCode(err, "INVALID_EMAIL"))
}

func TestAuthService_ReviewerRole(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, []string{" Rex@Example.com ", ""})

	registered, err := service.Register(&models.RegisterRequest{
		FullName: "Rex Reviewer", Email: "rex@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, registered.Reviewer)
	assert.True(t, service.IsReviewer(registered.UserID))

	user, err := service.GetUser(registered.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleReviewer, user.Role)
	assert.True(t, user.IsReviewer())

	applicant, err := service.Register(&models.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "secret2",
	})
	require.NoError(t, err)
	assert.False(t, service.IsReviewer(applicant.UserID))
}

func TestAuthService_GetUserUnknown(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAuthService(db, nil)

	_, err := service.GetUser(4242)
	assert.True(t, apperrors.HasCode(err, "RESOURCE_NOT_FOUND"))
	assert.False(t, service.IsReviewer(4242))
}

func TestAuthService_FindUserQueryFailure(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	service := NewAuthService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnError(assert.AnError)

	_, err := service.Login(&models.LoginRequest{Email: "ada@example.com", Password: "x"})

	assert.True(t, apperrors.HasCode(err, "DATABASE_ERROR"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
