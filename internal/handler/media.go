package handler

import (
	"onlinecourse/internal/config"

	"github.com/gofiber/fiber/v2"
)

// RegisterMedia serves uploaded files from the local media root. Other
// backends hand out their own URLs and need no route.
func RegisterMedia(app *fiber.App, cfg config.MediaConfig) bool {
	if cfg.Backend != config.MediaLocal && cfg.Backend != "" {
		return false
	}
	app.Static(cfg.URLPrefix, cfg.Root, fiber.Static{Browse: false, MaxAge: 3600})
	return true
}
