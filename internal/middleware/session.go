package middleware

import (
	"errors"
	"log"
	"net/http"

	"taskflow/internal/models"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// SessionAuth loads the signed-in user from the session cookie. Requests
// without a valid session continue anonymously and a stale cookie is
// cleared.
func SessionAuth(sessions services.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := sessions.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userKey, user)
		case errors.Is(err, services.ErrInvalidSession):
			c.SetCookie(cookieName, "", -1, "/", "", false, true)
		default:
			log.Printf("session: resolve: %v", err)
		}
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetCurrentUser replaces the user for the rest of the request, e.g. after
// a profile update.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}
