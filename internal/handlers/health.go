package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/config"
	"casino-backend/internal/services"
)

const maxErrorDetail = 60

type HealthHandler struct {
	store services.Store
	cfg   *config.Config
}

func NewHealthHandler(store services.Store, cfg *config.Config) *HealthHandler {
	return &HealthHandler{store: store, cfg: cfg}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Casino API running"})
}

// Diagnostics reports store connectivity. It always answers 200 so it can be
// read while the store is down.
func (h *HealthHandler) Diagnostics(c *gin.Context) {
	resp := gin.H{
		"backend":       "✅ Running",
		"database":      "✅ Connected",
		"database_url":  "❌ Not Set",
		"database_name": nil,
		"collections":   []string{},
	}

	if h.store.Name() == config.BackendRedis {
		if h.cfg.RedisURL != "" {
			resp["database_url"] = "✅ Set"
		}
		resp["database_name"] = strconv.Itoa(h.cfg.RedisDB)
	} else {
		resp["database_name"] = h.store.Name()
	}

	ctx := c.Request.Context()
	if err := h.store.Ping(ctx); err != nil {
		resp["database"] = "⚠️ " + truncate(err.Error(), maxErrorDetail)
		c.JSON(http.StatusOK, resp)
		return
	}

	collections, err := h.store.Collections(ctx)
	if err != nil {
		resp["database"] = "⚠️ " + truncate(err.Error(), maxErrorDetail)
	} else if collections != nil {
		resp["collections"] = collections
	}

	c.JSON(http.StatusOK, resp)
}

// truncate keeps the first n characters, never splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
