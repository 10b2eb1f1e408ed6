package handlers

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie  = "taskflow_flash"
	flashPending = "flash.pending"
	flashSecure  = "flash.secure"
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// Flashes configures the flash cookie for the rest of the chain.
func Flashes(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(flashSecure, secure)
		c.Next()
	}
}

func setFlashCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(flashCookie, value, maxAge, "/", "", c.GetBool(flashSecure), true)
}

// loadFlashes returns the messages queued for this request. The incoming
// cookie is read once and folded in, so unread messages from the previous
// hop survive another redirect.
func loadFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashPending); ok {
		flashes, _ := v.([]Flash)
		return flashes
	}
	var flashes []Flash
	if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
		if data, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			_ = json.Unmarshal(data, &flashes)
		}
	}
	c.Set(flashPending, flashes)
	return flashes
}

// addFlash queues a message for the next rendered page, whether that is
// this response or the one after a redirect.
func addFlash(c *gin.Context, category, message string) {
	pending := append(loadFlashes(c), Flash{Category: category, Message: message})
	c.Set(flashPending, pending)

	data, err := json.Marshal(pending)
	if err != nil {
		return
	}
	setFlashCookie(c, base64.RawURLEncoding.EncodeToString(data), 60)
}

// takeFlashes returns queued messages and clears the cookie.
func takeFlashes(c *gin.Context) []Flash {
	flashes := loadFlashes(c)
	if raw, err := c.Cookie(flashCookie); (err == nil && raw != "") || len(flashes) > 0 {
		setFlashCookie(c, "", -1)
	}
	c.Set(flashPending, []Flash{})
	return flashes
}
