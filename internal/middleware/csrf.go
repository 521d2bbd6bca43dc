package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
)

// CSRF issues a per-session token and rejects state-changing requests
// that do not echo it back, either as a form field or as the
// X-CSRF-Token header for JSON calls.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(constants.SessionKeyCSRFToken).(string)
		if token == "" {
			token = newCSRFToken()
			session.Set(constants.SessionKeyCSRFToken, token)
			if err := session.Save(); err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}

		// Expose the token so templates can embed it in forms.
		c.Set(constants.SessionKeyCSRFToken, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.GetHeader(constants.CSRFHeaderName)
		if submitted == "" {
			submitted = c.PostForm(constants.CSRFFormField)
		}

		if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Invalid CSRF token",
				})
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

// GetCSRFToken returns the token for the current session.
func GetCSRFToken(c *gin.Context) string {
	token, _ := c.Get(constants.SessionKeyCSRFToken)
	s, _ := token.(string)
	return s
}

func newCSRFToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing is unrecoverable for token issuance
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
