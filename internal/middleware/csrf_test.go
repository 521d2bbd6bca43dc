package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
	"github.com/stretchr/testify/require"
)

func csrfTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	r.Use(CSRF())
	r.GET("/token", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	r.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func fetchCSRFToken(t *testing.T, r *gin.Engine) (string, []*http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), token)
	return token, w.Result().Cookies()
}

func TestCSRF_AllowsGetWithoutToken(t *testing.T) {
	r := csrfTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	r := csrfTestRouter()
	_, cookies := fetchCSRFToken(t, r)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRF_AcceptsFormField(t *testing.T) {
	r := csrfTestRouter()
	token, cookies := fetchCSRFToken(t, r)

	form := url.Values{constants.CSRFFormField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_AcceptsHeader(t *testing.T) {
	r := csrfTestRouter()
	token, cookies := fetchCSRFToken(t, r)

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.CSRFHeaderName, token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_RejectsWrongToken(t *testing.T) {
	r := csrfTestRouter()
	_, cookies := fetchCSRFToken(t, r)

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.CSRFHeaderName, strings.Repeat("0", 64))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
