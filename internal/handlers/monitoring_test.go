package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Madhupal841998/book-rental/internal/monitoring"
)

const testMonitoringKey = "ops-key-for-tests"

func newMonitoringRouter(t *testing.T, key string) *gin.Engine {
	t.Helper()
	env := newTestEnv(t)

	service := monitoring.NewService(env.db, env.uploads)
	monitor := NewMonitoringHandler(service, key)

	router := gin.New()
	router.GET("/monitoring/status", monitor.Status)
	router.GET("/monitoring/snapshot", monitor.Snapshot)
	return router
}

func getMonitoring(router *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("X-Monitoring-Key", key)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestMonitoringDisabledWithoutKey(t *testing.T) {
	router := newMonitoringRouter(t, "")

	recorder := getMonitoring(router, "/monitoring/status", "anything")
	mustStatus(t, recorder.Code, http.StatusServiceUnavailable)
}

func TestMonitoringRejectsWrongKey(t *testing.T) {
	router := newMonitoringRouter(t, testMonitoringKey)

	recorder := getMonitoring(router, "/monitoring/status", "wrong")
	mustStatus(t, recorder.Code, http.StatusUnauthorized)

	recorder = getMonitoring(router, "/monitoring/status", "")
	mustStatus(t, recorder.Code, http.StatusUnauthorized)
}

func TestMonitoringStatusReportsText(t *testing.T) {
	router := newMonitoringRouter(t, testMonitoringKey)

	recorder := getMonitoring(router, "/monitoring/status", testMonitoringKey)
	expectHTTP200(t, recorder.Code)

	body := recorder.Body.String()
	if !strings.Contains(body, "Book Rental API Status") || !strings.Contains(body, "Uptime") {
		t.Fatalf("unexpected status body: %s", body)
	}
}
