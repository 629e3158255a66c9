package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nethserver/pkg-registry/internal/progress"
)

// registerProgressRoute adapts the teacher's simulated-progress
// websocket loop (originally a 2-second ticker in this same file) into
// a real subscriber over a rating/ingestion id's progress.Hub channel.
func registerProgressRoute(app *fiber.App, hub *progress.Hub) {
	app.Use("/ws/progress/:id", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("id", c.Params("id"))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/progress/:id", websocket.New(func(c *websocket.Conn) {
		id, _ := c.Locals("id").(string)
		events, unsubscribe := hub.Subscribe(id)
		defer unsubscribe()

		for ev := range events {
			body, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, body); err != nil {
				break
			}
		}
	}))
}
