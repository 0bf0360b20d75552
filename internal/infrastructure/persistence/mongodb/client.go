package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// Collections names the collections this service reads and writes.
type Collections struct {
	SportDetail  string
	SubSportType string
	Medal        string
	Audient      string
	Keys         string
}

// Config holds the MongoDB connection settings.
type Config struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
	Timeout        time.Duration
	Collections    Collections
}

// Client wraps the MongoDB connection shared by the repositories.
type Client struct {
	client      *mongo.Client
	database    *mongo.Database
	collections Collections
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(cfg *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetSocketTimeout(cfg.Timeout).
		SetReadPreference(readpref.Primary())

	if cfg.Username != "" {
		clientOptions = clientOptions.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:      client,
		database:    client.Database(cfg.Database),
		collections: cfg.Collections,
	}, nil
}

// EnsureIndexes creates the unique indexes the write paths rely on. The
// unique index on Medal.country_code backs the insert tier of the tally
// upsert cascade; without it concurrent writers could create duplicate
// country documents.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{c.collections.Medal, mongo.IndexModel{
			Keys:    bson.D{{Key: "country_code", Value: 1}},
			Options: unique,
		}},
		{c.collections.SubSportType, mongo.IndexModel{
			Keys:    bson.D{{Key: "sport_id", Value: 1}, {Key: "type_id", Value: 1}},
			Options: unique,
		}},
		{c.collections.SportDetail, mongo.IndexModel{
			Keys:    bson.D{{Key: "sport_id", Value: 1}},
			Options: unique,
		}},
		{c.collections.Keys, mongo.IndexModel{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: unique,
		}},
	}

	for _, idx := range indexes {
		name, err := c.database.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
		logger.Debug(ctx, "index ensured",
			logger.Collection(idx.collection),
			logger.Field("index", name),
		)
	}

	return nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Database exposes the underlying database handle.
func (c *Client) Database() *mongo.Database {
	return c.database
}
