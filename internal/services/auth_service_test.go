package services

import (
	"testing"

	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Community{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db)), db
}

func TestAuthService_Signup(t *testing.T) {
	svc, _ := setupAuthService(t)

	user, err := svc.Signup(SignupInput{
		Email:    "  Thandi@Example.COM ",
		Password: "supersecret",
		Name:     "Thandi",
	})
	require.NoError(t, err)
	require.Equal(t, "thandi@example.com", user.Email)
	require.Equal(t, models.RoleMember, user.Role)
	require.Nil(t, user.CommunityID)
	require.NotEqual(t, "supersecret", user.PasswordHash)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Signup(SignupInput{Email: "THANDI@example.com", Password: "othersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Email: "", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Signup(SignupInput{Email: "not-an-email", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Signup(SignupInput{Email: "thandi@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Signup_WithInvite(t *testing.T) {
	svc, db := setupAuthService(t)

	community := models.Community{Name: "Riverbank", InviteSlug: "riverbank-a1b2", AdminUserID: 99}
	require.NoError(t, db.Create(&community).Error)

	user, err := svc.Signup(SignupInput{
		Email:             "sipho@example.com",
		Password:          "supersecret",
		InviteCommunityID: &community.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, user.CommunityID)
	require.Equal(t, community.ID, *user.CommunityID)
	require.Equal(t, models.RoleMember, user.Role)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthService(t)

	created, err := svc.Signup(SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Email: "Thandi@Example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)

	// Unknown email and wrong password come back as the same error.
	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Email: "thandi@example.com", Password: "wrongsecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
