package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/pkg/logger"
	"github.com/michaelkaiserz/mongomanager/services"
	"github.com/michaelkaiserz/mongomanager/utils"

	"github.com/gin-gonic/gin"
)

var connectionSrv services.ConnectionService

// SetConnectionService initializes the connection service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetConnectionService(s services.ConnectionService) {
	connectionSrv = s
}

func connectionIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("connection ID must be a positive integer")
	}
	return uint(id), nil
}

// ListConnections returns all registered connections
// @Summary List connections
// @Description Returns every registered MongoDB connection with its last-known status
// @Tags Connections
// @Produce json
// @Success 200 {array} models.Connection "Registered connections"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/connections [get]
func listConnections(c *gin.Context) {
	conns, err := connectionSrv.List(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to list connections: %v", err)
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, conns)
}

// GetConnection returns one registered connection
// @Summary Get connection
// @Description Returns a single registered connection by ID
// @Tags Connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {object} models.Connection "Connection record"
// @Failure 400 {object} map[string]interface{} "Invalid connection ID"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id} [get]
func getConnection(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	conn, err := connectionSrv.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	utils.JSONResponse(c, http.StatusOK, conn)
}

// CreateConnection registers a new MongoDB connection
// @Summary Register connection
// @Description Registers a new MongoDB connection; it starts in the disconnected state until probed
// @Tags Connections
// @Accept json
// @Produce json
// @Param connection body models.Connection true "Connection object"
// @Success 201 {object} map[string]interface{} "Connection registered"
// @Failure 400 {object} map[string]interface{} "Invalid request body or validation error"
// @Router /api/connections [post]
func createConnection(c *gin.Context) {
	var data models.Connection
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if err := utils.ValidateStruct(&data); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if !utils.IsValidHost(data.Host) {
		utils.ErrorResponse(c, fmt.Errorf("invalid host: %s", data.Host))
		return
	}

	logger.Debugf("Registering connection: %s (%s:%d)", data.Name, data.Host, data.Port)
	newConn, err := connectionSrv.Create(c.Request.Context(), data)
	if err != nil {
		logger.Errorf("Failed to register connection %s: %v", data.Name, err)
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"message": "Connection was registered successfully",
		"id":      newConn.ID,
	})
}

// UpdateConnection edits a registered connection
// @Summary Update connection
// @Description Updates the user-editable fields of a registered connection
// @Tags Connections
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param connection body models.Connection true "Connection object"
// @Success 200 {object} models.Connection "Updated connection"
// @Failure 400 {object} map[string]interface{} "Invalid request body or validation error"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id} [put]
func updateConnection(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var data models.Connection
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if err := utils.ValidateStruct(&data); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if !utils.IsValidHost(data.Host) {
		utils.ErrorResponse(c, fmt.Errorf("invalid host: %s", data.Host))
		return
	}

	updated, err := connectionSrv.Update(c.Request.Context(), id, data)
	if err != nil {
		logger.Errorf("Failed to update connection %d: %v", id, err)
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, updated)
}

// DeleteConnection removes a registered connection
// @Summary Delete connection
// @Description Deletes a connection and drops its subscriptions and metrics window
// @Tags Connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {object} map[string]interface{} "Connection deleted"
// @Failure 400 {object} map[string]interface{} "Invalid connection ID"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id} [delete]
func deleteConnection(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	logger.Debugf("Deleting connection with ID: %d", id)
	if err := connectionSrv.Delete(c.Request.Context(), id); err != nil {
		logger.Errorf("Failed to delete connection %d: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"message": "Connection was deleted successfully",
	})
}

// TestConnection probes a connection on demand
// @Summary Test connection
// @Description Probes the target once and persists the resulting status
// @Tags Connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {object} map[string]interface{} "Probe result"
// @Failure 400 {object} map[string]interface{} "Invalid connection ID"
// @Failure 500 {object} map[string]interface{} "Probe failed"
// @Router /api/connections/test/{id} [post]
func testConnection(c *gin.Context) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	logger.Infof("Testing connection for ID: %d", id)
	result, err := connectionSrv.TestConnection(c.Request.Context(), id)
	if err != nil {
		logger.Errorf("Connection test failed for ID %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Connection test failed",
			"message": err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Connection test completed successfully",
		"data":    result,
	})
}

// RegisterConnectionRoutes registers HTTP endpoints for connection
// management operations.
func RegisterConnectionRoutes(rg *gin.RouterGroup) {
	connections := rg.Group("/connections")
	{
		connections.GET("", listConnections)
		connections.GET("/:id", getConnection)
		connections.POST("", createConnection)
		connections.PUT("/:id", updateConnection)
		connections.DELETE("/:id", deleteConnection)
		connections.POST("/test/:id", testConnection)
	}
}
