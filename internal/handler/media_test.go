package handler_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"onlinecourse/internal/config"
	"onlinecourse/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMedia(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "course_images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "course_images", "cover.png"), []byte("png"), 0o644))

	t.Run("Local backend serves files", func(t *testing.T) {
		app := fiber.New()
		assert.True(t, handler.RegisterMedia(app, config.MediaConfig{Backend: config.MediaLocal, Root: root, URLPrefix: "/media"}))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/course_images/cover.png", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/media/course_images/missing.png", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Object store needs no route", func(t *testing.T) {
		app := fiber.New()
		assert.False(t, handler.RegisterMedia(app, config.MediaConfig{Backend: config.MediaMinio, Root: root, URLPrefix: "/media"}))
	})
}
