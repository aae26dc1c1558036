package controllers

import (
	"errors"
	"net/http"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// QueryRequest is the body of an ad-hoc document query.
type QueryRequest struct {
	Filter bson.M `json:"filter"`
	Skip   int64  `json:"skip"`
	Limit  int64  `json:"limit"`
}

// AggregateRequest is the body of an ad-hoc aggregation.
type AggregateRequest struct {
	Pipeline []bson.M `json:"pipeline" validate:"required"`
}

// CommandRequest is the body of an ad-hoc database command. The command is
// decoded into bson.D because the driver treats the first key as the command
// name; the client's key order must survive.
type CommandRequest struct {
	Command bson.D `json:"command" bson:"command"`
}

var errEmptyCommand = errors.New("command document must not be empty")

// resolveConnection loads the connection referenced by the :id path
// parameter, writing the error response itself when the lookup fails.
func resolveConnection(c *gin.Context) (*models.Connection, bool) {
	id, err := connectionIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return nil, false
	}

	conn, err := connectionSrv.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return conn, true
}
