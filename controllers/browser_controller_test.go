package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/services/monitor"
	"github.com/michaelkaiserz/mongomanager/services/mongodb"
)

// stubConnectionService resolves every lookup to one fixed connection.
type stubConnectionService struct {
	conn *models.Connection
}

func (s *stubConnectionService) List(ctx context.Context) ([]models.Connection, error) {
	return []models.Connection{*s.conn}, nil
}

func (s *stubConnectionService) Get(ctx context.Context, id uint) (*models.Connection, error) {
	return s.conn, nil
}

func (s *stubConnectionService) Create(ctx context.Context, conn models.Connection) (*models.Connection, error) {
	return &conn, nil
}

func (s *stubConnectionService) Update(ctx context.Context, id uint, conn models.Connection) (*models.Connection, error) {
	return &conn, nil
}

func (s *stubConnectionService) Delete(ctx context.Context, id uint) error {
	return nil
}

func (s *stubConnectionService) TestConnection(ctx context.Context, id uint) (*monitor.ProbeResult, error) {
	return &monitor.ProbeResult{}, nil
}

// stubBrowserService records the command passed to RunCommand.
type stubBrowserService struct {
	lastCommand bson.D
}

func (s *stubBrowserService) ListDatabases(ctx context.Context, conn *models.Connection) ([]mongodb.DatabaseInfo, error) {
	return nil, nil
}

func (s *stubBrowserService) ListCollections(ctx context.Context, conn *models.Connection, database string) ([]string, error) {
	return nil, nil
}

func (s *stubBrowserService) DatabaseStats(ctx context.Context, conn *models.Connection, database string) (bson.M, error) {
	return bson.M{}, nil
}

func (s *stubBrowserService) CollectionStats(ctx context.Context, conn *models.Connection, database, collection string) (bson.M, error) {
	return bson.M{}, nil
}

func (s *stubBrowserService) FindDocuments(ctx context.Context, conn *models.Connection, database, collection string, filter bson.M, skip, limit int64) (*mongodb.DocumentPage, error) {
	return &mongodb.DocumentPage{}, nil
}

func (s *stubBrowserService) Aggregate(ctx context.Context, conn *models.Connection, database, collection string, pipeline []bson.M) ([]bson.M, error) {
	return nil, nil
}

func (s *stubBrowserService) RunCommand(ctx context.Context, conn *models.Connection, database string, command bson.D) (bson.M, error) {
	s.lastCommand = command
	return bson.M{"ok": 1}, nil
}

func newBrowserRouter(t *testing.T) (*gin.Engine, *stubBrowserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	SetConnectionService(&stubConnectionService{
		conn: &models.Connection{ID: 4, Name: "prod", Host: "localhost", Port: 27017},
	})
	browser := &stubBrowserService{}
	SetBrowserService(browser)

	router := gin.New()
	api := router.Group("/api")
	RegisterBrowserRoutes(api)
	return router, browser
}

// TestRunCommand_PreservesKeyOrder sends a multi-key command repeatedly and
// checks the command name always stays the first bson.D element. The driver
// treats the first key as the command name, so an order scramble would run
// the wrong command.
func TestRunCommand_PreservesKeyOrder(t *testing.T) {
	router, browser := newBrowserRouter(t)

	body := `{"command": {"collStats": "events", "scale": 1024, "verbose": true}}`
	for i := 0; i < 25; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/connections/4/databases/admin/command", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, browser.lastCommand, 3)
		assert.Equal(t, "collStats", browser.lastCommand[0].Key)
		assert.Equal(t, "scale", browser.lastCommand[1].Key)
		assert.Equal(t, "verbose", browser.lastCommand[2].Key)
	}
}

func TestRunCommand_EmptyCommandRejected(t *testing.T) {
	router, _ := newBrowserRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/connections/4/databases/admin/command", strings.NewReader(`{"command": {}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunCommand_MalformedBodyRejected(t *testing.T) {
	router, _ := newBrowserRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/connections/4/databases/admin/command", strings.NewReader(`{"command": `))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
