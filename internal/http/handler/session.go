package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the session id for clients that do not keep cookies.
const SessionHeader = "X-Session-ID"

// sessionID reads the caller's session, preferring the cookie.
func sessionID(c *fiber.Ctx, cookieName string) string {
	if id := c.Cookies(cookieName); id != "" {
		return id
	}
	return c.Get(SessionHeader)
}

func setSessionCookie(c *fiber.Ctx, cookieName, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Hour),
	})
}
