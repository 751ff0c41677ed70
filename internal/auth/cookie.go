package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieConfig describes the session cookie attributes.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// CookieHelper manages the session cookie.
type CookieHelper struct {
	config CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(config CookieConfig) *CookieHelper {
	return &CookieHelper{config: config}
}

// Name returns the session cookie name.
func (h *CookieHelper) Name() string {
	return h.config.Name
}

// SetSession stores the token in the session cookie.
func (h *CookieHelper) SetSession(c echo.Context, token string) {
	c.SetCookie(h.cookie(token, int(h.config.MaxAge.Seconds())))
}

// ClearSession instructs the client to drop the session cookie.
func (h *CookieHelper) ClearSession(c echo.Context) {
	cookie := h.cookie("", -1) // serialized as Max-Age=0
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

// Token returns the session token sent by the client, or "" when absent.
func (h *CookieHelper) Token(c echo.Context) string {
	cookie, err := c.Cookie(h.config.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *CookieHelper) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.config.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
