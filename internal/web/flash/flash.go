// Package flash carries one-shot notices across a redirect in a short-lived cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

const (
	// CookieName is the name of the flash cookie.
	CookieName = "flash"

	// CategorySuccess marks a confirmation notice.
	CategorySuccess = "success"
	// CategoryError marks a failure notice.
	CategoryError = "error"
	// CategoryInfo marks a neutral notice.
	CategoryInfo = "info"

	maxAgeSeconds = 60
)

// Message is a notice shown once on the next rendered page.
type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

// Set stores a notice for the next request.
func Set(c *fiber.Ctx, category, text string) {
	raw, err := json.Marshal(Message{Category: category, Text: text})
	if err != nil {
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears it.
func Pop(c *fiber.Ctx) *Message {
	value := c.Cookies(CookieName)
	if value == "" {
		return nil
	}

	c.ClearCookie(CookieName)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}

	msg := new(Message)
	if err = json.Unmarshal(raw, msg); err != nil || msg.Text == "" {
		return nil
	}

	return msg
}
