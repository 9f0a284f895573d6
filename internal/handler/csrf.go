package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	csrfSessionKey = "csrf_token"
	// CSRFFormField is the hidden form field carrying the token.
	CSRFFormField = "csrfmiddlewaretoken"
	// CSRFHeader may carry the token instead of the form field.
	CSRFHeader = "X-CSRF-Token"
)

// csrfToken returns the session bound token, minting one when absent.
func csrfToken(c *gin.Context) string {
	session := sessionFrom(c)
	if session == nil {
		return ""
	}
	if token, ok := session.Get(csrfSessionKey).(string); ok && token != "" {
		return token
	}

	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	session.Set(csrfSessionKey, token)
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	return token
}

// CSRFProtect rejects unsafe requests whose token does not match the session.
func (a *API) CSRFProtect() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		var expected string
		if session := sessionFrom(c); session != nil {
			expected, _ = session.Get(csrfSessionKey).(string)
		}

		provided := c.GetHeader(CSRFHeader)
		if provided == "" {
			provided = c.PostForm(CSRFFormField)
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
			a.logger.Warn("csrf verification failed",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"token_present", provided != "",
			)
			a.renderError(c, http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
