package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/database"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/repository"
	"github.com/izwi-app/izwi/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db               *gorm.DB
	router           *gin.Engine
	authService      *services.AuthService
	communityService *services.CommunityService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Community{}))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	authService := services.NewAuthService(userRepo)
	communityService := services.NewCommunityService(communityRepo, userRepo)
	handler := NewAuthHandler(authService, communityService)

	r := gin.New()
	r.LoadHTMLGlob("../../web/templates/*.html")
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	r.GET("/signup", handler.SignupPage)
	r.POST("/signup", handler.Signup)
	r.POST("/login", handler.Login)
	r.GET("/logout", handler.Logout)

	return authTestEnv{
		db:               db,
		router:           r,
		authService:      authService,
		communityService: communityService,
	}
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postForm(t, env.router, "/signup", url.Values{
		"email":    {"thandi@example.com"},
		"password": {"supersecret"},
		"name":     {"Thandi"},
		"consent":  {"on"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/define-community", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "thandi@example.com").First(&user).Error)
	require.Nil(t, user.CommunityID)
}

func TestAuthHandler_Signup_RequiresConsent(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postForm(t, env.router, "/signup", url.Values{
		"email":    {"thandi@example.com"},
		"password": {"supersecret"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/signup", w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)

	w := postForm(t, env.router, "/signup", url.Values{
		"email":    {"thandi@example.com"},
		"password": {"othersecret"},
		"consent":  {"on"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/signup", w.Header().Get("Location"))
}

func TestAuthHandler_Signup_WithInvite(t *testing.T) {
	env := setupAuthTestEnv(t)

	admin, err := env.authService.Signup(services.SignupInput{Email: "admin@example.com", Password: "supersecret"})
	require.NoError(t, err)
	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:        "Riverbank",
		AdminUserID: admin.ID,
	})
	require.NoError(t, err)

	// Visit the invite link first so the community is remembered in the
	// session, then sign up with that session cookie.
	req := httptest.NewRequest(http.MethodGet, "/signup?invite="+community.InviteSlug, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = postForm(t, env.router, "/signup", url.Values{
		"email":    {"sipho@example.com"},
		"password": {"supersecret"},
		"consent":  {"on"},
	}, cookies)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/welcome", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "sipho@example.com").First(&user).Error)
	require.NotNil(t, user.CommunityID)
	require.Equal(t, community.ID, *user.CommunityID)
	require.Equal(t, models.RoleMember, user.Role)
}

func TestAuthHandler_Signup_WithInviteFullCommunity(t *testing.T) {
	env := setupAuthTestEnv(t)

	admin, err := env.authService.Signup(services.SignupInput{Email: "admin@example.com", Password: "supersecret"})
	require.NoError(t, err)
	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:        "Riverbank",
		AdminUserID: admin.ID,
	})
	require.NoError(t, err)

	// The admin already fills the only seat.
	require.NoError(t, env.db.Model(&models.Community{}).
		Where("id = ?", community.ID).
		Update("max_members", 1).Error)

	req := httptest.NewRequest(http.MethodGet, "/signup?invite="+community.InviteSlug, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = postForm(t, env.router, "/signup", url.Values{
		"email":    {"sipho@example.com"},
		"password": {"supersecret"},
		"consent":  {"on"},
	}, cookies)

	// The account is still created, just without an affiliation.
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/define-community", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "sipho@example.com").First(&user).Error)
	require.Nil(t, user.CommunityID)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)

	w := postForm(t, env.router, "/login", url.Values{
		"email":    {"thandi@example.com"},
		"password": {"supersecret"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/define-community", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_Login_WithCommunityGoesToDashboard(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Signup(services.SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, err = env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:        "Riverbank",
		AdminUserID: user.ID,
	})
	require.NoError(t, err)

	w := postForm(t, env.router, "/login", url.Values{
		"email":    {"thandi@example.com"},
		"password": {"supersecret"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{Email: "thandi@example.com", Password: "supersecret"})
	require.NoError(t, err)

	w := postForm(t, env.router, "/login", url.Values{
		"email":    {"thandi@example.com"},
		"password": {"wrongsecret"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}
