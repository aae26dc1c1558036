package controllers

import (
	"net/http"
	"time"

	"github.com/michaelkaiserz/mongomanager/pkg/logger"
	"github.com/michaelkaiserz/mongomanager/services/monitor"
	"github.com/michaelkaiserz/mongomanager/services/system"
	"github.com/michaelkaiserz/mongomanager/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	monitorHub     *monitor.Hub
	monitorMetrics *monitor.MetricsStore
	monitorAlerts  *monitor.AlertStore
)

// SetMonitorStores initializes the hub and stores the monitor endpoints
// read from. Used for dependency injection in tests.
func SetMonitorStores(hub *monitor.Hub, metrics *monitor.MetricsStore, alerts *monitor.AlertStore) {
	monitorHub = hub
	monitorMetrics = metrics
	monitorAlerts = alerts
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The console UI is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LatestMetrics returns the newest probe result for a connection
// @Summary Latest metrics
// @Description Returns the most recent probe result recorded for a connection
// @Tags Monitor
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {object} monitor.ProbeResult "Latest probe result"
// @Failure 404 {object} map[string]interface{} "No metrics recorded"
// @Router /api/monitor/metrics/{id} [get]
func latestMetrics(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	result := monitorMetrics.Latest(id)
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no metrics recorded for this connection"})
		return
	}
	utils.JSONResponse(c, http.StatusOK, result)
}

// MetricsHistory returns the recent probe window for a connection
// @Summary Metrics history
// @Description Returns the bounded window of recent probe results, oldest first
// @Tags Monitor
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {array} monitor.ProbeResult "Recent probe results"
// @Failure 400 {object} map[string]interface{} "Invalid connection ID"
// @Router /api/monitor/metrics/{id}/history [get]
func metricsHistory(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, monitorMetrics.Recent(id))
}

// ListAlerts returns the recent alert buffer
// @Summary Recent alerts
// @Description Returns the bounded buffer of recent threshold alerts, newest first
// @Tags Monitor
// @Produce json
// @Success 200 {array} monitor.Alert "Recent alerts"
// @Router /api/monitor/alerts [get]
func listAlerts(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, monitorAlerts.Recent())
}

// SystemStats returns host-level resource figures
// @Summary Host statistics
// @Description Returns CPU, memory and load figures for the host running the console
// @Tags Monitor
// @Produce json
// @Success 200 {object} system.Stats "Host statistics"
// @Failure 500 {object} map[string]interface{} "Collection failed"
// @Router /api/monitor/system [get]
func systemStats(c *gin.Context) {
	stats, err := system.Collect()
	if err != nil {
		logger.Errorf("Failed to collect host stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats)
}

// StreamEvents subscribes a WebSocket session to a connection's events
// @Summary Stream monitor events
// @Description Upgrades to a WebSocket and pushes metrics/error events for one connection as they occur
// @Tags Monitor
// @Param id path int true "Connection ID"
// @Success 101 {string} string "Switching protocols"
// @Failure 400 {object} map[string]interface{} "Invalid connection ID"
// @Router /api/monitor/stream/{id} [get]
func streamEvents(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("WebSocket upgrade failed for connection %d: %v", id, err)
		return
	}

	events := monitorHub.Subscribe(id)
	logger.Infof("WebSocket session subscribed to connection %d", id)

	done := make(chan struct{})

	// Read loop: drains control frames and detects the peer going away.
	go func() {
		defer close(done)
		ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			ws.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pinger := time.NewTicker(pingPeriod)
	defer func() {
		pinger.Stop()
		monitorHub.Unsubscribe(id, events)
		ws.Close()
		logger.Infof("WebSocket session for connection %d closed", id)
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				// Superseded by a newer subscriber or the connection was
				// deleted.
				ws.SetWriteDeadline(time.Now().Add(writeWait))
				ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscription replaced"))
				return
			}
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(event); err != nil {
				return
			}
		case <-pinger.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// RegisterMonitorRoutes registers HTTP endpoints for monitor reads and the
// event stream.
func RegisterMonitorRoutes(rg *gin.RouterGroup) {
	mon := rg.Group("/monitor")
	{
		mon.GET("/metrics/:id", latestMetrics)
		mon.GET("/metrics/:id/history", metricsHistory)
		mon.GET("/alerts", listAlerts)
		mon.GET("/system", systemStats)
		mon.GET("/stream/:id", streamEvents)
	}
}
