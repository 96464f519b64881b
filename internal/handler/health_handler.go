package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler reports service liveness and dependency health.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database and reports per-dependency status.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	services := gin.H{}
	status := "ok"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			services["database"] = gin.H{"status": "error", "error": err.Error()}
			status = "error"
			code = http.StatusServiceUnavailable
		} else {
			services["database"] = gin.H{"status": "ok"}
		}
	}

	c.JSON(code, gin.H{"status": status, "services": services})
}
