package mongodb

import (
	"context"
	"fmt"

	"github.com/michaelkaiserz/mongomanager/config"
	"github.com/michaelkaiserz/mongomanager/models"
	"github.com/michaelkaiserz/mongomanager/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseInfo describes one database on a target instance.
type DatabaseInfo struct {
	Name       string `json:"name"`
	SizeOnDisk int64  `json:"size_on_disk"`
	Empty      bool   `json:"empty"`
}

// DocumentPage is one page of documents from a collection plus the total
// count matching the filter.
type DocumentPage struct {
	Documents []bson.M `json:"documents"`
	Total     int64    `json:"total"`
	Skip      int64    `json:"skip"`
	Limit     int64    `json:"limit"`
}

// BrowserService exposes the ad-hoc browse/query/aggregate/command
// operations of the console. Each call is a direct pass-through to the
// driver against a transient client.
type BrowserService interface {
	ListDatabases(ctx context.Context, conn *models.Connection) ([]DatabaseInfo, error)
	ListCollections(ctx context.Context, conn *models.Connection, database string) ([]string, error)
	DatabaseStats(ctx context.Context, conn *models.Connection, database string) (bson.M, error)
	CollectionStats(ctx context.Context, conn *models.Connection, database, collection string) (bson.M, error)
	FindDocuments(ctx context.Context, conn *models.Connection, database, collection string, filter bson.M, skip, limit int64) (*DocumentPage, error)
	Aggregate(ctx context.Context, conn *models.Connection, database, collection string, pipeline []bson.M) ([]bson.M, error)
	RunCommand(ctx context.Context, conn *models.Connection, database string, command bson.D) (bson.M, error)
}

type browserService struct{}

// NewBrowserService creates a new browser service instance.
func NewBrowserService() BrowserService {
	return &browserService{}
}

// withClient runs fn against a transient client, releasing the client on
// both success and failure paths.
func (s *browserService) withClient(ctx context.Context, conn *models.Connection, fn func(*mongo.Client) error) error {
	ctx, cancel := context.WithTimeout(ctx, config.Cfg.QueryTimeout)
	defer cancel()

	client, err := Connect(ctx, conn, config.Cfg.QueryTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warnf("Failed to disconnect client for connection %d: %v", conn.ID, err)
		}
	}()

	return fn(client)
}

func (s *browserService) ListDatabases(ctx context.Context, conn *models.Connection) ([]DatabaseInfo, error) {
	var dbs []DatabaseInfo
	err := s.withClient(ctx, conn, func(client *mongo.Client) error {
		res, err := client.ListDatabases(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("failed to list databases: %w", err)
		}
		for _, spec := range res.Databases {
			dbs = append(dbs, DatabaseInfo{
				Name:       spec.Name,
				SizeOnDisk: spec.SizeOnDisk,
				Empty:      spec.Empty,
			})
		}
		return nil
	})
	return dbs, err
}

func (s *browserService) ListCollections(ctx context.Context, conn *models.Connection, database string) ([]string, error) {
	var names []string
	err := s.withClient(ctx, conn, func(client *mongo.Client) error {
		var err error
		names, err = client.Database(database).ListCollectionNames(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("failed to list collections in %s: %w", database, err)
		}
		return nil
	})
	return names, err
}

func (s *browserService) DatabaseStats(ctx context.Context, conn *models.Connection, database string) (bson.M, error) {
	return s.runCommand(ctx, conn, database, bson.D{{Key: "dbStats", Value: 1}})
}

func (s *browserService) CollectionStats(ctx context.Context, conn *models.Connection, database, collection string) (bson.M, error) {
	return s.runCommand(ctx, conn, database, bson.D{{Key: "collStats", Value: collection}})
}

func (s *browserService) FindDocuments(ctx context.Context, conn *models.Connection, database, collection string, filter bson.M, skip, limit int64) (*DocumentPage, error) {
	if filter == nil {
		filter = bson.M{}
	}
	if limit <= 0 {
		limit = config.Cfg.DocumentPageSize
	}
	if skip < 0 {
		skip = 0
	}

	page := &DocumentPage{Documents: []bson.M{}, Skip: skip, Limit: limit}
	err := s.withClient(ctx, conn, func(client *mongo.Client) error {
		coll := client.Database(database).Collection(collection)

		total, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count documents in %s.%s: %w", database, collection, err)
		}
		page.Total = total

		cursor, err := coll.Find(ctx, filter, options.Find().SetSkip(skip).SetLimit(limit))
		if err != nil {
			return fmt.Errorf("failed to query %s.%s: %w", database, collection, err)
		}
		defer cursor.Close(ctx)

		if err := cursor.All(ctx, &page.Documents); err != nil {
			return fmt.Errorf("failed to decode documents from %s.%s: %w", database, collection, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *browserService) Aggregate(ctx context.Context, conn *models.Connection, database, collection string, pipeline []bson.M) ([]bson.M, error) {
	results := []bson.M{}
	err := s.withClient(ctx, conn, func(client *mongo.Client) error {
		cursor, err := client.Database(database).Collection(collection).Aggregate(ctx, pipeline)
		if err != nil {
			return fmt.Errorf("failed to run aggregation on %s.%s: %w", database, collection, err)
		}
		defer cursor.Close(ctx)

		if err := cursor.All(ctx, &results); err != nil {
			return fmt.Errorf("failed to decode aggregation results from %s.%s: %w", database, collection, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *browserService) RunCommand(ctx context.Context, conn *models.Connection, database string, command bson.D) (bson.M, error) {
	return s.runCommand(ctx, conn, database, command)
}

func (s *browserService) runCommand(ctx context.Context, conn *models.Connection, database string, command bson.D) (bson.M, error) {
	var out bson.M
	err := s.withClient(ctx, conn, func(client *mongo.Client) error {
		if err := client.Database(database).RunCommand(ctx, command).Decode(&out); err != nil {
			return fmt.Errorf("command failed on %s: %w", database, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
