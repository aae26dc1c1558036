package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/services/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Prober performs a single liveness probe against one target.
// Implementations must not mutate the registry; failures are returned as
// values so the scheduler can always proceed to the next connection.
type Prober interface {
	Probe(ctx context.Context, conn *models.Connection) (*ProbeResult, error)
}

type mongoProber struct {
	timeout time.Duration
}

// NewProber creates a prober with the given per-probe connect and
// server-selection timeout.
func NewProber(timeout time.Duration) Prober {
	return &mongoProber{timeout: timeout}
}

// Probe connects to the target, measures a liveness ping and fetches the
// serverStatus subset. The transient client is released on every path.
func (p *mongoProber) Probe(ctx context.Context, conn *models.Connection) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(mongodb.BuildURI(conn)).
		SetConnectTimeout(p.timeout).
		SetServerSelectionTimeout(p.timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s:%d: %v", conn.Host, conn.Port, err)
	}
	defer client.Disconnect(context.Background())

	start := time.Now()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping failed for %s:%d: %v", conn.Host, conn.Port, err)
	}
	responseTime := float64(time.Since(start).Microseconds()) / 1000.0

	var status ServerStatus
	cmd := bson.D{{Key: "serverStatus", Value: 1}}
	if err := client.Database(conn.AdminDatabase()).RunCommand(ctx, cmd).Decode(&status); err != nil {
		return nil, fmt.Errorf("serverStatus failed for %s:%d: %v", conn.Host, conn.Port, err)
	}

	return &ProbeResult{
		Timestamp:    time.Now(),
		ResponseTime: responseTime,
		Server:       &status,
	}, nil
}
