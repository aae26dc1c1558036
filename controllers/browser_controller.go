package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/michaelkaiserz/mongomanager/pkg/logger"
	"github.com/michaelkaiserz/mongomanager/services/mongodb"
	"github.com/michaelkaiserz/mongomanager/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

var browserSrv mongodb.BrowserService

// SetBrowserService initializes the browser service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetBrowserService(s mongodb.BrowserService) {
	browserSrv = s
}

// ListDatabases lists databases on a target instance
// @Summary List databases
// @Description Lists the databases on the target MongoDB instance
// @Tags Browser
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {array} mongodb.DatabaseInfo "Databases"
// @Failure 400 {object} map[string]interface{} "Invalid connection ID or target error"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id}/databases [get]
func listDatabases(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	dbs, err := browserSrv.ListDatabases(c.Request.Context(), conn)
	if err != nil {
		logger.Errorf("Failed to list databases for connection %d: %v", conn.ID, err)
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, dbs)
}

// ListCollections lists collections in a database
// @Summary List collections
// @Description Lists the collections of one database on the target instance
// @Tags Browser
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Success 200 {array} string "Collection names"
// @Failure 400 {object} map[string]interface{} "Target error"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id}/databases/{db}/collections [get]
func listCollections(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	names, err := browserSrv.ListCollections(c.Request.Context(), conn, c.Param("db"))
	if err != nil {
		logger.Errorf("Failed to list collections for connection %d: %v", conn.ID, err)
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, names)
}

// DatabaseStats returns dbStats for a database
// @Summary Database statistics
// @Description Runs dbStats against one database on the target instance
// @Tags Browser
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Success 200 {object} map[string]interface{} "dbStats output"
// @Failure 400 {object} map[string]interface{} "Target error"
// @Router /api/connections/{id}/databases/{db}/stats [get]
func databaseStats(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	stats, err := browserSrv.DatabaseStats(c.Request.Context(), conn, c.Param("db"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats)
}

// CollectionStats returns collStats for a collection
// @Summary Collection statistics
// @Description Runs collStats against one collection on the target instance
// @Tags Browser
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Param coll path string true "Collection name"
// @Success 200 {object} map[string]interface{} "collStats output"
// @Failure 400 {object} map[string]interface{} "Target error"
// @Router /api/connections/{id}/databases/{db}/collections/{coll}/stats [get]
func collectionStats(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	stats, err := browserSrv.CollectionStats(c.Request.Context(), conn, c.Param("db"), c.Param("coll"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats)
}

// ListDocuments pages through a collection
// @Summary List documents
// @Description Returns one page of documents from a collection, no filter
// @Tags Browser
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Param coll path string true "Collection name"
// @Param skip query int false "Documents to skip"
// @Param limit query int false "Page size"
// @Success 200 {object} mongodb.DocumentPage "Documents page"
// @Failure 400 {object} map[string]interface{} "Target error"
// @Router /api/connections/{id}/databases/{db}/collections/{coll}/documents [get]
func listDocuments(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	page, err := browserSrv.FindDocuments(c.Request.Context(), conn, c.Param("db"), c.Param("coll"), nil, skip, limit)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, page)
}

// QueryDocuments runs an ad-hoc filtered query
// @Summary Query documents
// @Description Returns one page of documents matching an ad-hoc filter
// @Tags Browser
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Param coll path string true "Collection name"
// @Param query body QueryRequest true "Filter and pagination"
// @Success 200 {object} mongodb.DocumentPage "Documents page"
// @Failure 400 {object} map[string]interface{} "Invalid filter or target error"
// @Router /api/connections/{id}/databases/{db}/collections/{coll}/query [post]
func queryDocuments(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	page, err := browserSrv.FindDocuments(c.Request.Context(), conn, c.Param("db"), c.Param("coll"), req.Filter, req.Skip, req.Limit)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, page)
}

// AggregateDocuments runs an ad-hoc aggregation pipeline
// @Summary Run aggregation
// @Description Runs an aggregation pipeline against one collection
// @Tags Browser
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Param coll path string true "Collection name"
// @Param pipeline body AggregateRequest true "Aggregation pipeline"
// @Success 200 {array} map[string]interface{} "Aggregation results"
// @Failure 400 {object} map[string]interface{} "Invalid pipeline or target error"
// @Router /api/connections/{id}/databases/{db}/collections/{coll}/aggregate [post]
func aggregateDocuments(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	results, err := browserSrv.Aggregate(c.Request.Context(), conn, c.Param("db"), c.Param("coll"), req.Pipeline)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, results)
}

// RunCommand runs an ad-hoc database command
// @Summary Run command
// @Description Runs an arbitrary database command against one database
// @Tags Browser
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param db path string true "Database name"
// @Param command body CommandRequest true "Command document"
// @Success 200 {object} map[string]interface{} "Command output"
// @Failure 400 {object} map[string]interface{} "Invalid command or target error"
// @Router /api/connections/{id}/databases/{db}/command [post]
func runCommand(c *gin.Context) {
	conn, ok := resolveConnection(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	// Decode as extended JSON into bson.D; ShouldBindJSON would go through a
	// Go map and scramble the key order.
	var req CommandRequest
	if err := bson.UnmarshalExtJSON(body, false, &req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if len(req.Command) == 0 {
		utils.ErrorResponse(c, errEmptyCommand)
		return
	}

	out, err := browserSrv.RunCommand(c.Request.Context(), conn, c.Param("db"), req.Command)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, out)
}

// RegisterBrowserRoutes registers HTTP endpoints for database browsing and
// ad-hoc operations.
func RegisterBrowserRoutes(rg *gin.RouterGroup) {
	browse := rg.Group("/connections/:id")
	{
		browse.GET("/databases", listDatabases)
		browse.GET("/databases/:db/collections", listCollections)
		browse.GET("/databases/:db/stats", databaseStats)
		browse.GET("/databases/:db/collections/:coll/stats", collectionStats)
		browse.GET("/databases/:db/collections/:coll/documents", listDocuments)
		browse.POST("/databases/:db/collections/:coll/query", queryDocuments)
		browse.POST("/databases/:db/collections/:coll/aggregate", aggregateDocuments)
		browse.POST("/databases/:db/command", runCommand)
	}
}
