package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// authenticateRequest is the PUT /authenticate body (SPEC_FULL.md §6,
// grounded on the original's src/user.rs User/Secret shapes).
type authenticateRequest struct {
	User struct {
		Name    string `json:"Name"`
		IsAdmin bool   `json:"IsAdmin"`
	} `json:"User"`
	Secret struct {
		Password string `json:"password"`
	} `json:"Secret"`
}

// issueToken builds an opaque signed token: HMAC-SHA256 over
// "name:issuedAt" using the server's configured secret, replacing the
// original's placeholder name+password concatenation (src/user.rs).
// Fine-grained authorization is an explicit Non-goal; this only proves
// the token was minted by this server.
func issueToken(secret, name string) string {
	issuedAt := time.Now().Unix()
	payload := name + ":" + strconv.FormatInt(issuedAt, 10)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// handleAuthenticate issues a bearer token for any well-formed request,
// since accept/reject is the full extent of the auth Non-goal's scope.
func (s *Server) handleAuthenticate(c *fiber.Ctx) error {
	var req authenticateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if req.User.Name == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	token := issueToken(s.authSecret, req.User.Name)
	return c.SendString(fmt.Sprintf("%q", token))
}
