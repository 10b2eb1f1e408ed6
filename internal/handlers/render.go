package handlers

import (
	"log"
	"net/http"
	"net/url"

	"taskflow/internal/apperrors"
	"taskflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// render executes a page template with the values every layout needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["Flashes"] = takeFlashes(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// back redirects to the referring page on this site, or to fallback.
func back(c *gin.Context, fallback string) {
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Path != "" {
		if ref.Host == "" || ref.Host == c.Request.Host {
			target := ref.Path
			if ref.RawQuery != "" {
				target += "?" + ref.RawQuery
			}
			redirect(c, target)
			return
		}
	}
	redirect(c, fallback)
}

// paramID reads a uuid path parameter. Malformed ids are reported as not
// found.
func paramID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.ErrNotFound
	}
	return id, nil
}

// fail answers a page request that hit err. Domain errors become a flash
// and a redirect; anything else is logged and rendered as a 500.
func fail(c *gin.Context, err error, fallback string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		addFlash(c, "error", message(err))
		redirect(c, "/dashboard")
	case apperrors.KindValidation, apperrors.KindAuthorization:
		addFlash(c, "error", message(err))
		redirect(c, fallback)
	default:
		log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error"})
	}
}

func warn(c *gin.Context, warnings []error) {
	for _, w := range warnings {
		addFlash(c, "warning", message(w))
	}
}

// failJSON answers a JSON or fragment request.
func failJSON(c *gin.Context, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
