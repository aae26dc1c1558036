package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/services/monitor"
)

func newMonitorRouter(t *testing.T) (*gin.Engine, *monitor.Hub, *monitor.MetricsStore, *monitor.AlertStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := monitor.NewHub()
	metrics := monitor.NewMetricsStore(100)
	alerts := monitor.NewAlertStore(100)
	SetMonitorStores(hub, metrics, alerts)

	router := gin.New()
	api := router.Group("/api")
	RegisterMonitorRoutes(api)
	return router, hub, metrics, alerts
}

func probeResultAt(ts time.Time, responseTime float64) *monitor.ProbeResult {
	return &monitor.ProbeResult{
		Timestamp:    ts,
		ResponseTime: responseTime,
		Server:       &monitor.ServerStatus{Uptime: 3600},
	}
}

func TestLatestMetrics_NotFound(t *testing.T) {
	router, _, _, _ := newMonitorRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/monitor/metrics/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLatestMetrics_InvalidID(t *testing.T) {
	router, _, _, _ := newMonitorRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/monitor/metrics/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLatestMetrics_ReturnsNewest(t *testing.T) {
	router, _, metrics, _ := newMonitorRouter(t)

	base := time.Now().Truncate(time.Second)
	metrics.Record(7, probeResultAt(base, 10))
	metrics.Record(7, probeResultAt(base.Add(30*time.Second), 25))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/monitor/metrics/7", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got monitor.ProbeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 25.0, got.ResponseTime)
}

func TestMetricsHistory_OldestFirst(t *testing.T) {
	router, _, metrics, _ := newMonitorRouter(t)

	base := time.Now().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		metrics.Record(3, probeResultAt(base.Add(time.Duration(i)*time.Minute), float64(i+1)))
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/monitor/metrics/3/history", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got []monitor.ProbeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].ResponseTime)
	assert.Equal(t, 3.0, got[2].ResponseTime)
}

func TestListAlerts_NewestFirst(t *testing.T) {
	router, _, _, alerts := newMonitorRouter(t)

	conn := &models.Connection{ID: 5, Name: "prod"}
	first := monitor.EvaluateAlerts(conn, probeResultAt(time.Now(), 1500))
	require.Len(t, first, 1)
	alerts.Add(first...)

	second := monitor.EvaluateAlerts(conn, probeResultAt(time.Now(), 2500))
	require.Len(t, second, 1)
	alerts.Add(second...)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/monitor/alerts", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got []monitor.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Message, "2500ms")
	assert.Contains(t, got[1].Message, "1500ms")
	assert.NotEmpty(t, got[0].ID)
}

func TestSystemStats(t *testing.T) {
	router, _, _, _ := newMonitorRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/monitor/system", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStreamEvents_DeliversPublishedEvent(t *testing.T) {
	router, hub, _, _ := newMonitorRouter(t)

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/monitor/stream/9"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	// Wait for the session to register its subscription before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, hub.Subscribers())

	hub.Publish(9, &monitor.Event{
		Type:         monitor.EventMetrics,
		ConnectionID: 9,
		Data:         probeResultAt(time.Now(), 42),
	})

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got monitor.Event
	require.NoError(t, ws.ReadJSON(&got))
	assert.Equal(t, monitor.EventMetrics, got.Type)
	assert.Equal(t, uint(9), got.ConnectionID)
	require.NotNil(t, got.Data)
	assert.Equal(t, 42.0, got.Data.ResponseTime)
}
