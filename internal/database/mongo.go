package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectMongo dials the document store and verifies it with a ping before
// handing back the database handle.
func ConnectMongo(ctx context.Context, uri, dbName string, logger *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Errorf("MongoDB connection failed: %v", err)
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Errorf("MongoDB ping failed: %v", err)
		return nil, nil, err
	}

	logger.Infof("MongoDB connected, database %q", dbName)
	return client.Database(dbName), client, nil
}
