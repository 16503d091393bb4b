package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Madhupal841998/book-rental/internal/monitoring"
)

// MonitoringHandler exposes operational reports behind a shared key.
// The endpoints stay off unless MONITORING_API_KEY is configured.
type MonitoringHandler struct {
	service *monitoring.Service
	key     string
}

func NewMonitoringHandler(service *monitoring.Service, key string) *MonitoringHandler {
	return &MonitoringHandler{service: service, key: strings.TrimSpace(key)}
}

func (h *MonitoringHandler) authorized(c *gin.Context) bool {
	if h.key == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Monitoring API is disabled"})
		return false
	}

	provided := strings.TrimSpace(c.GetHeader("X-Monitoring-Key"))
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.key)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid monitoring key"})
		return false
	}
	return true
}

func (h *MonitoringHandler) Status(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.service.StatusText(c.Request.Context())})
}

func (h *MonitoringHandler) Storage(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.service.StorageText(c.Request.Context())})
}

func (h *MonitoringHandler) Snapshot(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}
