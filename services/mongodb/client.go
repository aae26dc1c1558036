// Package mongodb builds transient client handles to registered MongoDB
// targets and exposes the ad-hoc browse/query operations of the console.
// Every operation acquires its own client and releases it before returning;
// no connection pool is retained between calls.
package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/michaelkaiserz/mongomanager/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// BuildURI constructs the MongoDB connection URI for a registered
// connection, embedding credentials and URI options when present.
func BuildURI(conn *models.Connection) string {
	var userinfo string
	if conn.Username != "" {
		userinfo = fmt.Sprintf("%s:%s@", url.QueryEscape(conn.Username), url.QueryEscape(conn.Password))
	}

	params := url.Values{}
	if conn.AuthSource != "" {
		params.Set("authSource", conn.AuthSource)
	}
	if conn.TLS {
		params.Set("tls", "true")
	}
	if conn.ReplicaSet != "" {
		params.Set("replicaSet", conn.ReplicaSet)
	}

	uri := fmt.Sprintf("mongodb://%s%s:%d/", userinfo, conn.Host, conn.Port)
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}

// Connect establishes a transient client to the target with the given
// connect/server-selection timeout and verifies liveness with a ping.
// The caller owns the returned client and must Disconnect it.
func Connect(ctx context.Context, conn *models.Connection, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(BuildURI(conn)).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s:%d: %w", conn.Host, conn.Port, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach %s:%d: %w", conn.Host, conn.Port, err)
	}
	return client, nil
}
