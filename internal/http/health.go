package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db         *database.Database
	contentDir string
	version    string
}

// NewHealthController checks the SQLite database when one is configured and
// the content directory when its path is non-empty.
func NewHealthController(db *database.Database, contentDir, version string) *HealthController {
	return &HealthController{
		db:         db,
		contentDir: contentDir,
		version:    version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.contentDir != "" {
		if info, err := os.Stat(h.contentDir); err != nil {
			checks["content_dir"] = "error: " + err.Error()
			status = "unhealthy"
		} else if !info.IsDir() {
			checks["content_dir"] = "error: not a directory"
			status = "unhealthy"
		} else {
			checks["content_dir"] = "ok"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
