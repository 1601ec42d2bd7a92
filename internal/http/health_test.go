package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/printingpress/internal/database"
)

func setupHealthTestDB(t *testing.T) *database.Database {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)
	return db
}

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()

	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		db := setupHealthTestDB(t)
		defer db.Close()

		code, response := getHealth(t, NewHealthController(db, "", "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("reports database as not configured for the file backend", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(nil, "", "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
		assert.NotContains(t, response.Checks, "content_dir")
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db := setupHealthTestDB(t)
		require.NoError(t, db.Close())

		code, response := getHealth(t, NewHealthController(db, "", "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})

	t.Run("checks the content directory", func(t *testing.T) {
		dir := t.TempDir()

		code, response := getHealth(t, NewHealthController(nil, dir, ""))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", response.Checks["content_dir"])

		code, response = getHealth(t, NewHealthController(nil, filepath.Join(dir, "missing"), ""))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, response.Checks["content_dir"], "error")

		file := filepath.Join(dir, "file.md")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		code, response = getHealth(t, NewHealthController(nil, file, ""))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "error: not a directory", response.Checks["content_dir"])
	})
}
